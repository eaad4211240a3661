package ai

import "strings"

const basePrompt = `You are editing a short public announcement for a Bitcoin block prediction game.

Hard rules (must follow):

* Keep every number, username, block number and amount exactly as written. Do not add new facts.
* Keep the @ in front of usernames and keep the #BitcoinBlocks tag.
* The result must fit in 320 bytes including emoji.
* Plain text only: no markdown, no quotes around the text, no explanation before or after.`

var tonePrompts = map[string]string{
	"hype": `Tone (hype):

* Energetic and celebratory, at most three emoji.

* Congratulate the winner by name in the first line.`,
	"plain": `Tone (plain):

* Calm and factual, at most one emoji.

* Lead with the block number and transaction count.`,
}

// BuildAnnouncePrompt joins the base rules with a tone. Unknown tones fall back to hype.
func BuildAnnouncePrompt(tone string) string {
	tone = strings.TrimSpace(strings.ToLower(tone))
	style, ok := tonePrompts[tone]
	if !ok {
		style = tonePrompts["hype"]
	}
	return strings.Join([]string{basePrompt, style}, "\n\n")
}
