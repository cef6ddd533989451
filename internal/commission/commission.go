package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Program constants, all amounts in FCFA
var (
	ActivationFee          = decimal.NewFromInt(4000)
	WelcomeBonusAmount     = decimal.NewFromInt(700)
	VideoReward            = decimal.NewFromInt(50)
	VideoWithdrawThreshold = decimal.NewFromInt(500)
	MinMainWithdrawal      = decimal.NewFromInt(2500)
	MinVideoWithdrawal     = decimal.NewFromInt(500)
)

// WelcomeBonusTarget is the number of active direct referrals required
// for the welcome bonus.
const WelcomeBonusTarget = 15

// VideoWatchSeconds is how long a video must be watched before its
// reward can be claimed.
const VideoWatchSeconds = 60

// MaxLevel is the deepest referrer level that earns a commission.
const MaxLevel = 3

// levelAmounts maps a referral level to its fixed commission
var levelAmounts = map[int]decimal.Decimal{
	1: decimal.NewFromInt(1800),
	2: decimal.NewFromInt(900),
	3: decimal.NewFromInt(500),
}

// ForLevel returns the fixed commission for a referral level.
// Levels outside 1..3 earn nothing.
func ForLevel(level int) decimal.Decimal {
	if amount, ok := levelAmounts[level]; ok {
		return amount
	}
	return decimal.Zero
}

// DeriveCode derives a user's referral code from their username:
// uppercased with all whitespace stripped.
func DeriveCode(username string) string {
	return strings.ToUpper(strings.Join(strings.Fields(username), ""))
}
