package models

// ChannelProfile is the public projection of a user viewed as a channel,
// including the aggregated subscription counts. It never carries credentials.
type ChannelProfile struct {
	ID                string `json:"id"`
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	AvatarURL         string `json:"avatar"`
	CoverImageURL     string `json:"coverImage,omitempty"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
