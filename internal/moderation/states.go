package moderation

// ReportState is a step of the reporter-side dialogue.
type ReportState int

const (
	ReportStart ReportState = iota
	ReportAwaitingMessage
	ReportAwaitingAbuseType
	ReportAwaitingBullyingType
	ReportAwaitingVictimBlock
	ReportAwaitingVictimType
	ReportAwaitingVictim
	ReportAwaitingResources
	ReportAwaitingBlockType
	ReportAwaitingReview
	ReportComplete
)

// String returns the state name.
func (s ReportState) String() string {
	switch s {
	case ReportStart:
		return "REPORT_START"
	case ReportAwaitingMessage:
		return "AWAITING_MESSAGE"
	case ReportAwaitingAbuseType:
		return "AWAITING_ABUSE_TYPE"
	case ReportAwaitingBullyingType:
		return "AWAITING_BULLYING_TYPE"
	case ReportAwaitingVictimBlock:
		return "AWAITING_VICTIM_BLOCK"
	case ReportAwaitingVictimType:
		return "AWAITING_VICTIM_TYPE"
	case ReportAwaitingVictim:
		return "AWAITING_VICTIM"
	case ReportAwaitingResources:
		return "AWAITING_RESOURCES"
	case ReportAwaitingBlockType:
		return "AWAITING_BLOCK_TYPE"
	case ReportAwaitingReview:
		return "AWAITING_REVIEW"
	case ReportComplete:
		return "REPORT_COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// ReviewState is a step of the moderator-side dialogue.
// ReviewNone means the session has not been handed to a moderator yet.
type ReviewState int

const (
	ReviewNone ReviewState = iota
	ReviewAwaitingReview
	ReviewViolationType
	ReviewAwaitingOtherViolationType
	ReviewAwaitingAdversarialDecision
	ReviewAwaitingBanPoster
	ReviewComplete
)

// String returns the state name.
func (s ReviewState) String() string {
	switch s {
	case ReviewNone:
		return "NONE"
	case ReviewAwaitingReview:
		return "AWAITING_REVIEW"
	case ReviewViolationType:
		return "VIOLATION_TYPE"
	case ReviewAwaitingOtherViolationType:
		return "AWAITING_OTHER_VIOLATION_TYPE"
	case ReviewAwaitingAdversarialDecision:
		return "AWAITING_ADVERSARIAL_DECISION"
	case ReviewAwaitingBanPoster:
		return "AWAITING_BAN_POSTER"
	case ReviewComplete:
		return "REVIEW_COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Origin tells how a session was created.
type Origin int

const (
	// OriginReport is a session filed by a user through the report dialogue.
	OriginReport Origin = iota
	// OriginAutoFlag is a session seeded by the channel scanner.
	OriginAutoFlag
)

// String returns the metrics label for the origin.
func (o Origin) String() string {
	if o == OriginAutoFlag {
		return "autoflag"
	}
	return "report"
}

// Session outcomes used as metrics labels.
const (
	OutcomeCancelled       = "cancelled"
	OutcomeReviewCancelled = "review_cancelled"
	OutcomeWarned          = "warned"
	OutcomeRestricted      = "restricted"
	OutcomeBanned          = "banned"
	OutcomeForwarded       = "forwarded"
	OutcomeDismissed       = "dismissed"
	OutcomeAdmonished      = "admonished"
	OutcomeNoViolation     = "no_violation"
)
