package dto

type SubmitJobRequest struct {
	ContinuationToken string `json:"continuationToken" binding:"required"`
	ProcedureName     string `json:"procedureName" binding:"required"`
	EventMessage      string `json:"eventMessage" binding:"required"`
}

type SubmitJobResponse struct {
	JobCallResponse string `json:"jobCallResponse"`
	CorrelationKey  string `json:"correlationKey"`
	Status          string `json:"status"`
}
