package simulate

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	SettlePollInterval   = 200 * time.Millisecond
	PercentageMultiplier = 100
)
