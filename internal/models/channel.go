package models

import "slices"

// ChannelStats is a snapshot of a channel's public metrics. It is built once
// per analysis cycle and not modified afterwards.
type ChannelStats struct {
	ChannelID        string `json:"channelId,omitempty"`
	Name             string `json:"name"`
	SubscriberCount  uint64 `json:"subscriberCount"`
	TotalViewCount   uint64 `json:"totalViewCount"`
	VideoCount       uint64 `json:"videoCount"`
	AvatarURL        string `json:"avatarUrl,omitempty"`
	ChannelURL       string `json:"channelUrl,omitempty"`
	GrowthLabel      string `json:"growthLabel"`
	RecentViewsTrend []int  `json:"recentViewsTrend"`
}

// Resolved reports whether the record came back from a lookup rather than
// being a pending placeholder.
func (s *ChannelStats) Resolved() bool {
	return s != nil && s.Name != ""
}

// DemoChannels are the canned records offered on the connect screen.
func DemoChannels() []ChannelStats {
	return []ChannelStats{
		{
			Name:             "Future Tech (Sample)",
			SubscriberCount:  24500,
			TotalViewCount:   1200000,
			VideoCount:       142,
			GrowthLabel:      "+15%",
			AvatarURL:        "https://api.dicebear.com/7.x/avataaars/svg?seed=tech",
			ChannelURL:       "https://youtube.com/@samplechannel",
			RecentViewsTrend: []int{40, 55, 45, 70, 65, 80, 75},
		},
	}
}

// Clone returns a deep copy.
func (s ChannelStats) Clone() ChannelStats {
	s.RecentViewsTrend = slices.Clone(s.RecentViewsTrend)
	return s
}
