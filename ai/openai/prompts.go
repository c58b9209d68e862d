package openai

const rewritePrompt = `You rewrite searches over a catalog of government support programs.
Given a user's search query, return JSON describing what they are looking for.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or
acknowledgment. Start your response directly with the opening brace { and end
with the closing brace }. Your output must exactly follow this schema:

{
  "intent": "one short sentence restating what the user wants",
  "keywords": ["3-8 lowercase search terms, single words or short phrases"],
  "category": "one of: jobs, housing, education, welfare, culture, participation, or empty string"
}

Rules:
- Keywords must be concrete program-search terms, not filler words.
- Use an empty string for category when none clearly applies.
- The JSON must parse without errors; no trailing commas, no extra keys.

Example:
Input: "im 25 and jobless, anything to help me find work?"
Output:
{
  "intent": "employment support programs for an unemployed young adult",
  "keywords": ["employment", "job seeking", "unemployed", "career", "training"],
  "category": "jobs"
}`

const explanationPrompt = `You explain why government support programs were recommended to a user.
Given the user's situation and a list of candidate programs, write one short
reason per candidate connecting the program to the user.

Output ONLY valid JSON. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

{
  "explanations": [
    {"ref": 123, "reason": "one sentence, plain language, under 25 words"}
  ]
}

Rules:
- Use each candidate's ref value exactly as given. Never invent refs.
- Reasons must mention a concrete fit: region, age, employment, or topic.
- No marketing language, no exclamation marks.
- The JSON must parse without errors; no trailing commas, no extra keys.`
