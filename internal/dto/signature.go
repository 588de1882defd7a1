package dto

type RequestSignaturesRequest struct {
	Signers []string `json:"signers"`
}

type SignMeta struct {
	Mime string `json:"mime,omitempty"`
}
