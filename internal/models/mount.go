package models

// IceMeta carries the ice-* metadata a source supplies when it connects.
// Empty fields were simply not sent. The stream title is exposed as
// stream_name so it cannot collide with the mount name in flattened JSON.
type IceMeta struct {
	Public      *int   `json:"public,omitempty" yaml:"public,omitempty"`
	StreamName  string `json:"stream_name,omitempty" yaml:"stream_name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Genre       string `json:"genre,omitempty" yaml:"genre,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	IRC         string `json:"irc,omitempty" yaml:"irc,omitempty"`
	AIM         string `json:"aim,omitempty" yaml:"aim,omitempty"`
	ICQ         string `json:"icq,omitempty" yaml:"icq,omitempty"`
	AudioInfo   string `json:"audio_info,omitempty" yaml:"audio_info,omitempty"`
}

// MountStats is the transfer counter set a live source keeps updated.
type MountStats struct {
	Subscribers int   `json:"subscribers"`
	BytesIn     int64 `json:"bytes_in"`
	BytesOut    int64 `json:"bytes_out"`
}

// MountInfo is one element of the /mount_info response. StreamURL is
// host-relative (no scheme); clients prepend their own scheme. Song is a
// pointer because "no song reported" and "empty title" are different things
// to the watcher.
type MountInfo struct {
	Name        string  `json:"name"`
	Subscribers int     `json:"subscribers"`
	StreamURL   string  `json:"stream_url"`
	BytesIn     int64   `json:"bytes_in"`
	BytesOut    int64   `json:"bytes_out"`
	OnAir       bool    `json:"on_air"`
	Song        *string `json:"song,omitempty"`

	IceMeta
}
