package types

// Video is one related-video search result. Field names match what the
// frontend consumes.
type Video struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoID      string `json:"videoId"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}
