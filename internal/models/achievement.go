package models

type Achievement struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Criteria    map[string]any `json:"criteria,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

type AchievementPayload struct {
	Achievement Achievement `json:"achievement"`
}

type UserAchievement struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	AchievementID string       `json:"achievementId"`
	UnlockedAt    string       `json:"unlockedAt"`
	Achievement   *Achievement `json:"achievement,omitempty"`
}

type UserAchievementsPayload struct {
	Achievements []UserAchievement `json:"achievements"`
}

type AchievementRequest struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Criteria    map[string]any `json:"criteria,omitempty"`
}
