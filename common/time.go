package common

import "time"

// NowMilli returns now timestamp in milliseconds
func NowMilli() int64 {
	return time.Now().UnixNano() / 1e6
}
