package model

// ParentPipeline describes the pipeline run whose console log is being parsed.
type ParentPipeline struct {
	Name        string `json:"name"`
	BuildNumber string `json:"build_number"`
	URL         string `json:"url,omitempty"`
	Node        string `json:"node,omitempty"`
}

// SpawnedBuild is one downstream build started during a pipeline run.
type SpawnedBuild struct {
	Name        string `json:"name"`
	BuildNumber string `json:"build_number"`
	URL         string `json:"url,omitempty"`
	Result      string `json:"result,omitempty"`
}

// SpawnReport is the output document of the spawned-build scan.
type SpawnReport struct {
	Parent        ParentPipeline `json:"parent"`
	SpawnedBuilds []SpawnedBuild `json:"spawned_jobs"`
}
