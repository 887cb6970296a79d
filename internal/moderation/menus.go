package moderation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/havenmod/haven/pkg/utils"
)

// ErrInvalidChoice is returned when input does not select a menu option.
var ErrInvalidChoice = errors.New("invalid menu choice")

// Option is a value of a fixed numbered menu.
type Option interface {
	comparable
	Label() string
}

// AbuseType is the category chosen by the reporter.
type AbuseType int

const (
	AbuseBullying AbuseType = iota + 1
	AbuseSpam
	AbuseOffensiveContent
	AbuseImminentDanger
)

// Label returns the menu text.
func (a AbuseType) Label() string {
	switch a {
	case AbuseBullying:
		return "Bullying"
	case AbuseSpam:
		return "Spam"
	case AbuseOffensiveContent:
		return "Offensive Content"
	case AbuseImminentDanger:
		return "Imminent Danger"
	default:
		return ""
	}
}

// BullyingType narrows a bullying report.
type BullyingType int

const (
	BullyingThreats BullyingType = iota + 1
	BullyingDoxxing
	BullyingNonconsensualImages
)

// Label returns the menu text.
func (b BullyingType) Label() string {
	switch b {
	case BullyingThreats:
		return "Threatening or Abusive Messages"
	case BullyingDoxxing:
		return "Doxxing or Exposing Private Information"
	case BullyingNonconsensualImages:
		return "Sharing Nonconsensual Images"
	default:
		return ""
	}
}

// VictimBlock records whether the target already blocked the poster.
type VictimBlock int

const (
	VictimBlockYes VictimBlock = iota + 1
	VictimBlockNo
	VictimBlockNotSure
)

// Label returns the menu text.
func (v VictimBlock) Label() string {
	switch v {
	case VictimBlockYes:
		return "Yes"
	case VictimBlockNo:
		return "No"
	case VictimBlockNotSure:
		return "Not Sure"
	default:
		return ""
	}
}

// VictimType is the reporter's relation to the target.
type VictimType int

const (
	VictimMe VictimType = iota + 1
	VictimSomeoneIKnow
	VictimOther
)

// Label returns the menu text.
func (v VictimType) Label() string {
	switch v {
	case VictimMe:
		return "Me"
	case VictimSomeoneIKnow:
		return "Someone I Know"
	case VictimOther:
		return "Other"
	default:
		return ""
	}
}

// BlockType is the reporter's blocking preference.
type BlockType int

const (
	BlockAccount BlockType = iota + 1
	BlockAccountAndFuture
	BlockNone
)

// Label returns the menu text.
func (b BlockType) Label() string {
	switch b {
	case BlockAccount:
		return "Block this account"
	case BlockAccountAndFuture:
		return "Block this account and future accounts they create"
	case BlockNone:
		return "Do not block"
	default:
		return ""
	}
}

// Violation is the moderator's first decision.
type Violation int

const (
	ViolationBullying Violation = iota + 1
	ViolationDifferent
	ViolationNone
)

// Label returns the menu text.
func (v Violation) Label() string {
	switch v {
	case ViolationBullying:
		return "Bullying violation"
	case ViolationDifferent:
		return "Different violation"
	case ViolationNone:
		return "Not a violation"
	default:
		return ""
	}
}

var (
	abuseOptions          = []AbuseType{AbuseBullying, AbuseSpam, AbuseOffensiveContent, AbuseImminentDanger}
	bullyingOptions       = []BullyingType{BullyingThreats, BullyingDoxxing, BullyingNonconsensualImages}
	victimBlockOptions    = []VictimBlock{VictimBlockYes, VictimBlockNo, VictimBlockNotSure}
	victimOptions         = []VictimType{VictimMe, VictimSomeoneIKnow, VictimOther}
	blockOptions          = []BlockType{BlockAccount, BlockAccountAndFuture, BlockNone}
	violationOptions      = []Violation{ViolationBullying, ViolationDifferent, ViolationNone}
	otherViolationOptions = []AbuseType{AbuseSpam, AbuseOffensiveContent, AbuseImminentDanger}
)

// ParseChoice maps a 1-based menu number to its option.
func ParseChoice[T Option](input string, options []T) (T, error) {
	var zero T

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(options) {
		return zero, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
	}

	return options[n-1], nil
}

// ParseYesNo accepts Y/N answers in any case, including the full words.
func ParseYesNo(input string) (bool, error) {
	switch utils.NormalizeCommand(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidChoice, input)
	}
}

// menuLines renders a prompt followed by numbered options.
func menuLines[T Option](prompt string, options []T) []string {
	lines := make([]string, 0, len(options)+1)
	lines = append(lines, prompt)

	for i, option := range options {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, option.Label()))
	}

	return lines
}
