package llm

import "fmt"

// ExtractionPrompt generates the prompt for structured wellness
// extraction from one user message. today resolves relative dates;
// history carries the last few turns so the model does not re-extract
// data the user is merely repeating.
func ExtractionPrompt(text, today, history string) string {
	return fmt.Sprintf(`You are a wellness-tracking extraction system. Extract structured data from the user's message.

Today's date is %s. Resolve relative dates ("yesterday", "this morning") against it.

Categories:
- sleep: bedtime_hour/bedtime_minute (0-23/0-59), wake_hour/wake_minute, duration_hours, quality (poor|fair|good|excellent), notes. At most one.
- exercise: list of sessions — exercise_type (run|walk|gym|weights|yoga|swim|cycle|other), body_parts (full_body|chest|biceps|triceps|shoulders|back|abs|lower_body|other, gym/weights only), duration_minutes, distance_km, intensity (1-10), notes.
- wellness: time_of_day, meditation_minutes, meditation_type (meditation|cleaning|sitting|group_meditation|other), mood_score (1-10), energy_level (1-10), notes. At most one.
- tasks: list of {task, priority} where priority is 1=high, 2=medium, 3=low.
- reading_links: list of {url, context} for things to read later.
- reminder_text / reminder_datetime: a reminder the user asked for.
- journal_note: free-text reflections that fit no category above.

Rules:
- Omit every field the message does not state. Never guess numbers.
- Dates are ISO-8601 strings (YYYY-MM-DD).
- If the message is a short clarification (e.g. "30 minutes"), extract only that fragment.
- Return ONLY a JSON object, no other text. If nothing is extractable, return {}.

Recent conversation (do not re-extract data the user is only repeating):
%s

USER MESSAGE:
%s`, today, history, text)
}

// ClassifyPrompt generates the three-way intent prompt. The pipeline
// biases toward "log" when the answer is ambiguous.
func ClassifyPrompt(text string) string {
	return fmt.Sprintf(`Classify the user's message into exactly one intent. Reply with the single word.

- log: the user shares anything about their day, health, mood, activities, plans, food, work, tasks, links, or journal-style notes. When in doubt, choose log.
- query: the user asks a question about their past tracked data, e.g. "how did I sleep this week?".
- other: truly unrelated — maths help, news, random facts, technical questions with no personal context.

MESSAGE:
%s`, text)
}

// ChitchatPrompt generates the light acknowledgment reply for messages
// that map to neither logging nor querying.
func ChitchatPrompt(text string) string {
	return fmt.Sprintf(`You are a friendly personal life assistant. The user sent a message that doesn't map to logging or querying wellness data. Briefly acknowledge what they said (1-2 sentences), then gently ask if they'd like to log any part of it — mood, activity, tasks, or plans. Warm, concise, plain text.

MESSAGE:
%s`, text)
}

// QueryPrompt generates the prompt for answering a question about
// historical data. context is a compact rendering of recent records.
func QueryPrompt(question, context string) string {
	return fmt.Sprintf(`You are a helpful life-tracking assistant. Answer the user's question based ONLY on the historical logs below. Be concise and friendly. If the logs don't contain the answer, say so.

LOGS:
%s

QUESTION:
%s`, context, question)
}

// DigestPrompt generates the weekly digest summary prompt.
func DigestPrompt(context string) string {
	return fmt.Sprintf(`You are a supportive life-tracking assistant. Summarize the user's last 7 days of sleep, exercise, and wellness logs into a short, engaging weekly digest. Highlight streaks, average sleep, and exercise completed, and end with an encouraging note. Plain text only.

LOGS:
%s`, context)
}
