package dialog

import "github.com/audiora/lectern/pkg/alexa"

// Prompt texts. SSML fragments are wrapped in <speak> tags at the call site.
const (
	welcomeSpeech = "Welcome to Linked In Learning. You can ask about a particular topic or ask for the most popular content in a category."

	chooseCategorySpeech = "Welcome to Linked In Learning. For which category do you want to hear the popular content?."

	categoryReprompt = `Please choose a category by saying, courses <break time="0.2s" /> videos <break time="0.2s" /> learning paths`

	hearMoreSpeech   = "Would you like to hear more?"
	hearMoreReprompt = "Would you like to hear more popular ones? Please say yes or no."

	hearRestReprompt = "Would you like to hear the rest? Please say yes or no."

	continueReprompt = "Would you like to hear more popular content? Please say yes or no."

	helpSpeech = "You can ask for the popular content on Linked In Learning for a given category. " +
		"For example, get popular courses, or you can say exit. " +
		"Now, what can I help you with?"

	helpReprompt = "I'm sorry I didn't understand that. You can say things like," +
		`courses <break time="0.2s" /> ` +
		`videos <break time="0.2s" /> ` +
		"learning paths. Or you can say exit. Now, what can I help you with?"

	goodbyeSpeech = "Goodbye"
)

// newAskResponse builds a response that keeps the session open and waits for
// the user's answer. Each text is either plain or already-wrapped SSML.
func newAskResponse(speech string, speechSSML bool, reprompt string, repromptSSML bool) *alexa.Response {
	return &alexa.Response{
		OutputSpeech: speak(speech, speechSSML),
		Reprompt:     &alexa.Reprompt{OutputSpeech: speak(reprompt, repromptSSML)},
	}
}

// newTellResponse builds a terminal response that ends the session.
func newTellResponse(speech string, ssml bool) *alexa.Response {
	return &alexa.Response{
		OutputSpeech:     speak(speech, ssml),
		ShouldEndSession: true,
	}
}

func speak(text string, ssml bool) *alexa.OutputSpeech {
	if ssml {
		return alexa.SSMLSpeech(text)
	}
	return alexa.PlainSpeech(text)
}

// ssmlWrap wraps an SSML fragment in the <speak> envelope.
func ssmlWrap(fragment string) string {
	return "<speak>" + fragment + "</speak>"
}
