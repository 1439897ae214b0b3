package refine

import "fmt"

// Default prompts for a run. Callers can override both through [Config].
const (
	DefaultSystemPrompt = "You are a highly technical assistant providing concise and accurate reports on complex deep learning topics."
	DefaultSeedPrompt   = "Provide a concise and technical explanation of transformers in deep learning."
)

func feedbackPrompt(text string) string {
	return fmt.Sprintf("Provide critical feedback for the following answer:\n\n%s", text)
}

func gradingPrompt(text, feedback string) string {
	return fmt.Sprintf("Grade the following response on a scale from -100 to 100 based on the feedback:\n\nResponse: %s\nFeedback: %s", text, feedback)
}

func refinementPrompt(text string) string {
	return fmt.Sprintf("Refine the following response to make it more concise and technical but retain information:\n\n%s", text)
}
