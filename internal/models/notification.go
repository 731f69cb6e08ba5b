package models

type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

type NotificationPayload struct {
	Notification Notification `json:"notification"`
}

type NotificationFilter struct {
	Page   int
	Limit  int
	IsRead *bool
	Type   string
}
