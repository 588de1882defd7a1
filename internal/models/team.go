package models

type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IsDeleted bool     `json:"is_deleted"`
	Members   []string `json:"members"`
}
