package dto

// ManualResponse lists the resources a service exposes.
type ManualResponse struct {
	URI             string            `json:"uri"`
	SubresourceURIs map[string]string `json:"subresource_uris"`
}
