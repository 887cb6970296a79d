package moderation

// Command keywords, compared after Unicode folding.
const (
	KeywordReport = "report"
	KeywordReview = "review"
	KeywordCancel = "cancel"
	KeywordHelp   = "help"
	KeywordEval   = "eval"
)

// Generic replies.
const (
	MsgProcessingFailed = "Something went wrong while processing your message. Please try again."
	MsgInvalidChoice    = "Please reply with the number of one of the options below."
	MsgInvalidYesNo     = "Please reply with `Y` or `N`."
)

// Help texts.
const (
	HelpDirect = "Use the `report` command to begin the reporting process.\n" +
		"Use the `cancel` command to cancel the report process.\n" +
		"Use the `help` command to see this message again."
	HelpModerator = "Use the `review` command to review the oldest pending report.\n" +
		"Use the `cancel` command to cancel the review in progress.\n" +
		"Use the `eval <path>` command to evaluate the classifier against a labeled CSV dataset."
)

// Reporter dialogue.
const (
	msgReportStart = "Thank you for starting the reporting process. Say `help` at any time for more information.\n\n" +
		"Please copy paste the link to the message you want to report.\n" +
		"You can obtain this link by right-clicking the message and clicking `Copy Message Link`."
	msgReportCancelled    = "Report cancelled."
	msgCancelRefused      = "A moderator is already reviewing your report, so it can no longer be cancelled."
	msgBadLink            = "I'm sorry, I couldn't read that link. Please try again or say `cancel` to cancel."
	msgGuildNotFound      = "I cannot accept reports of messages from guilds that I'm not in. Please have the guild owner add me to the guild and try again."
	msgChannelNotFound    = "It seems this channel was deleted or never existed. Please try again or say `cancel` to cancel."
	msgMessageNotFound    = "It seems this message was deleted or never existed. Please try again or say `cancel` to cancel."
	msgFoundMessage       = "I found this message:"
	msgAbusePrompt        = "Please classify this message by replying with its number:"
	msgBullyingPrompt     = "Please specify the type of bullying:"
	msgVictimBlockPrompt  = "Has the person being targeted already blocked this account?"
	msgVictimPrompt       = "Who is this content targeting?"
	msgResourcesOffer     = "We're sorry you are going through this. Would you like a list of mental health and support resources? (Y/N)"
	msgResourcesIntro     = "Here are some resources that may help:"
	msgThanksCommunity    = "Thank you for keeping our community safe!"
	msgThanksOthers       = "Your report will be reviewed. Thank you for looking out for others in your community!"
	msgBlockPrompt        = "Would you like to block this user?"
	msgBlockedAccount     = "This user has been blocked."
	msgBlockedFuture      = "This user and any future accounts they create have been blocked."
	msgNotBlocked         = "The user will not be blocked."
	msgReportSubmitted    = "Your report has been submitted and is pending moderator review. Thank you for keeping our community safe!"
	msgReportPending      = "Your report is pending moderator review."
	msgNewReportPending   = "A new report from %s is pending review. Type `review` to begin."
	msgAttachedImage      = "Attached image: %s"
	msgForwardedMessage   = "Forwarded message:\n%s: \"%s\""
	msgForwardedImage     = "Forwarded image:\n%s: %s"
	msgForwardedRefImage  = "Forwarded referenced image:\n%s: %s"
	msgEvaluatedViolation = "Evaluated: '%s' as a violation"
	msgEvaluatedClean     = "Evaluated: '%s' as not a violation"
	msgAutoFlagged        = "This message has been flagged for review. Type `review` to begin."
)

// Moderator dialogue.
const (
	msgNoReports            = "No active moderation reports found!"
	msgReviewInProgress     = "A review is already in progress. Finish it or say `cancel` first."
	msgReviewingReport      = "Reviewing report filed by %s:"
	msgReviewingAutoFlag    = "Reviewing auto-flagged message:"
	msgViolationPrompt      = "How would you classify this message?"
	msgOtherViolationPrompt = "Which kind of violation is it?"
	msgReviewCancelled      = "Review cancelled. The report has been closed."
	msgPosterPriors         = "%s has %d prior violation(s)."
	msgPosterRecord         = "Violations on record for %s: %d"
	msgWarningSent          = "Warning sent!"
	msgPostingRestricted    = "A temporary posting restriction has been recorded for %s."
	msgBanPrompt            = "Would you like to ban %s? (Y/N)"
	msgBanned               = "%s has been banned."
	msgTemporarilyBanned    = "A temporary restriction has been recorded for %s instead of a ban."
	msgForwardedToTeam      = "This report has been forwarded to the %s team."
	msgAdversarialPrompt    = "Was this report made in bad faith? (Y/N)"
	msgReporterPriors       = "%s has %d prior adversarial report(s)."
	msgAdmonitionSent       = "An admonition has been sent to %s."
	msgReportingRestricted  = "A temporary reporting restriction has been recorded for %s."
	msgReporterNotified     = "%s has been told the message did not violate our guidelines."
	msgAutoFlagDismissed    = "The auto-flagged message has been dismissed."
)

// Direct notifications.
const (
	dmQuotedContent = "A moderator reviewed the following message you posted:\n%s"
	dmAdmonition    = "Please review our community guidelines. Further violations may lead to restrictions or a ban."
	dmAdversarial   = "A moderator determined that a report you filed was not made in good faith. " +
		"Please only report content that violates our community guidelines. Repeated bad-faith reports may lead to restrictions."
	dmNoViolation = "Thank you for your report. A moderator reviewed the message and found that it did not violate our community guidelines."
)
