package alexa

// OutputSpeech types.
const (
	SpeechTypePlainText = "PlainText"
	SpeechTypeSSML      = "SSML"
)

// Directive types understood by the playback surface.
const (
	DirectiveTypePlay       = "AudioPlayer.Play"
	DirectiveTypeClearQueue = "AudioPlayer.ClearQueue"
)

// ResponseEnvelope is the top-level JSON document returned to the platform.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          Response       `json:"response"`
}

// Response is the outcome of one turn: what to say, what to show, what the
// playback surface should do, and whether the session ends here.
type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

// OutputSpeech is spoken text, either plain or SSML markup.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

// PlainSpeech builds a PlainText [OutputSpeech].
func PlainSpeech(text string) *OutputSpeech {
	return &OutputSpeech{Type: SpeechTypePlainText, Text: text}
}

// SSMLSpeech builds an SSML [OutputSpeech]. The text must already be wrapped
// in <speak> tags.
func SSMLSpeech(ssml string) *OutputSpeech {
	return &OutputSpeech{Type: SpeechTypeSSML, SSML: ssml}
}

// Reprompt is spoken when the user does not reply or is misunderstood.
type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
}

// Card is the visual companion to a spoken response.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// SimpleCard builds a "Simple" card with the given title and body.
func SimpleCard(title, content string) *Card {
	return &Card{Type: "Simple", Title: title, Content: content}
}

// Directive instructs the device playback surface independently of spoken
// output.
type Directive struct {
	Type          string     `json:"type"`
	PlayBehavior  string     `json:"playBehavior,omitempty"`
	ClearBehavior string     `json:"clearBehavior,omitempty"`
	AudioItem     *AudioItem `json:"audioItem,omitempty"`
}

// AudioItem wraps the stream description of a Play directive.
type AudioItem struct {
	Stream Stream `json:"stream"`
}

// Stream describes the audio the device should fetch and play.
type Stream struct {
	URL                  string `json:"url"`
	Token                string `json:"token"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds"`
}

// PlayDirective builds an AudioPlayer.Play directive that replaces the
// current queue and starts the stream at offsetMs.
func PlayDirective(url, token string, offsetMs int64) Directive {
	return Directive{
		Type:         DirectiveTypePlay,
		PlayBehavior: "REPLACE_ALL",
		AudioItem: &AudioItem{
			Stream: Stream{URL: url, Token: token, OffsetInMilliseconds: offsetMs},
		},
	}
}

// ClearQueueDirective builds an AudioPlayer.ClearQueue directive that stops
// the current stream and empties the queue.
func ClearQueueDirective() Directive {
	return Directive{
		Type:          DirectiveTypeClearQueue,
		ClearBehavior: "CLEAR_ALL",
	}
}
