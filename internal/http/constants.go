package http

const (
	KeyHeaderContentType       = "Content-Type"
	ValueHeaderApplicationJson = "application/json"
)
