package dto

// NotificationRequest is the admin payload for direct and broadcast notifications.
type NotificationRequest struct {
	Title    string  `json:"title" binding:"required,max=200" example:"Registration opens"`
	Message  string  `json:"message" binding:"required,max=4000" example:"Course registration opens Monday."`
	Category *string `json:"category" binding:"omitempty,max=50" example:"academic"`
	Type     *string `json:"type" binding:"omitempty,max=50" example:"info"`
	Priority *string `json:"priority" binding:"omitempty,max=20" example:"high"`
}
