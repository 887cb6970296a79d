package ai

const (
	// PolicyPrompt is the moderation policy every request is judged against.
	PolicyPrompt = `You are a content moderator for an online community. Judge content against this policy.

Cyberbullying policy:
Cyberbullying is the use of digital communication to harm, threaten, intimidate, humiliate or harass a person.
It includes:
1. Threats of violence or self-harm directed at a person
2. Insults, name-calling or demeaning remarks aimed at a specific person
3. Encouraging others to target, exclude or pile on a person
4. Sharing private information about a person without consent (doxxing)
5. Sharing intimate or embarrassing images of a person without consent
6. Impersonating a person to damage their reputation

Public figures:
Criticism, satire and commentary about public figures (politicians, celebrities, public organizations) concerning
their public conduct is allowed. Threats, doxxing and sexualized harassment of public figures are still violations.

Content that merely mentions bullying, reports it, or expresses disagreement without targeting a person is not a violation.`

	// ClassifyQuestion asks for a binary verdict about one comment.
	ClassifyQuestion = `Would you consider the following comment a violation of the policy above?
Comment: %q
Respond with only one word, "yes" or "no", followed by a one sentence explanation.`

	// ExplainQuestion asks for a short explanation addressed to the author.
	ExplainQuestion = `A moderator has confirmed that the following comment violates the policy above.
Comment: %q
Explain to the author of the comment, in two or three plain sentences, which part of the policy it violates and why.
Address the author directly. Do not quote the policy verbatim and do not mention that you are an AI.`

	// ResourcesPrompt asks the model to pick support resources for a reporter.
	ResourcesPrompt = `A community member reported being the target of bullying. The report and a list of support resources are below as JSON.

Select up to three resources from the list that best fit this report. For each one, give its name, its link and one
sentence on why it may help. Use only resources from the list. Write in a warm, supportive tone.

INPUT:
%s`

	// SingleImageNote frames a lone image attached to the comment.
	SingleImageNote = "The image above is attached to the comment."
	// ReferencedImageNote frames a lone image from the post the comment replies to.
	ReferencedImageNote = "The image above is from the original post the comment replies to."
	// OriginalPostLabel precedes the image of the post being replied to.
	OriginalPostLabel = "Original post:"
	// ResponseLabel precedes the image attached to the reply.
	ResponseLabel = "Response to it:"
)

// Resource is a support service that may be suggested to a reporter.
type Resource struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// CuratedResources is the fixed list SuggestResources selects from.
var CuratedResources = []Resource{
	{
		Name:        "988 Suicide & Crisis Lifeline",
		URL:         "https://988lifeline.org",
		Description: "Free, confidential 24/7 support by call or text to 988 in the US for anyone in emotional distress.",
	},
	{
		Name:        "Crisis Text Line",
		URL:         "https://www.crisistextline.org",
		Description: "Text HOME to 741741 to reach a trained crisis counselor at any time.",
	},
	{
		Name:        "StopBullying.gov",
		URL:         "https://www.stopbullying.gov/cyberbullying/what-is-it",
		Description: "Guidance on recognizing, responding to and reporting cyberbullying.",
	},
	{
		Name:        "Cyberbullying Research Center",
		URL:         "https://cyberbullying.org/resources",
		Description: "Research-based advice and resources for targets of online harassment and their families.",
	},
	{
		Name:        "Cyber Civil Rights Initiative Helpline",
		URL:         "https://cybercivilrights.org/ccri-crisis-helpline",
		Description: "Support for victims of nonconsensual sharing of intimate images.",
	},
	{
		Name:        "Take It Down",
		URL:         "https://takeitdown.ncmec.org",
		Description: "Helps remove nude or sexually explicit images of people taken before they were 18.",
	},
	{
		Name:        "The Trevor Project",
		URL:         "https://www.thetrevorproject.org/get-help",
		Description: "24/7 crisis support for LGBTQ+ young people.",
	},
	{
		Name:        "HeartMob",
		URL:         "https://iheartmob.org",
		Description: "Community support and safety planning for people experiencing online harassment.",
	},
}
