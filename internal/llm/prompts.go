package llm

// SystemPrompt grounds every completion in the data the copilot supplies.
const SystemPrompt = `You are a Business AI Copilot assistant helping product managers and team leads with their daily work.

Only use information from tool outputs and the data provided in the request. Never make up facts, numbers, or names.
If you do not have a piece of information, say so instead of guessing.`

const intentPrompt = `Analyze the user's request and identify:

1. Primary intent (what they want to accomplish)
2. Entities mentioned (projects, people, dates)
3. Required tools
4. Any ambiguities that need clarification

Available tools: get_project_status, knowledge_search, compose_email, get_calendar, get_tasks, create_priority_plan.

User request: %s

Return ONLY a JSON object with:
- intent: primary goal
- entities: object of entity types to values
- required_tools: list of tools needed
- confidence: number 0-1 indicating clarity
- ambiguities: list of unclear aspects`

const emailPrompt = `Draft a professional email based on the following information:

Purpose: %s

Key Information:
%s

Recipients: %s

Requirements:
- Tone: %s
- Include action items: %t
- Be concise but complete
- Use professional formatting
- Highlight critical issues appropriately

Return ONLY a JSON object with:
{
    "subject": "Email subject line",
    "body": "Full email body with proper formatting"
}`
