package ai

const EntityPrompt = `
# Task Context
You are an assistant that extracts named entities from news articles for a knowledge graph.

# Detailed Task Description & Rules
- Extract every named entity mentioned in the text below.
- Each entity has an "entity" key holding its name as written in the text and a "type" key.
- The type must be one of: %s.
- Do not invent entities that are not mentioned in the text.

# Text
%s

# Output Formatting
Return the results as a valid JSON array of objects, where each object has "entity" and "type" keys.
Ensure the output is strictly in JSON format, with no additional text.

JSON Output:
`

const RelationshipPrompt = `
# Task Context
You are an assistant that extracts relationships between known entities found in news articles.

# Detailed Task Description & Rules
- Extract relationships between the entities listed below, as stated in the text.
- Use the entity names exactly as listed for "subject" and "object".
- The "predicate" is a short verb phrase describing how the subject relates to the object.

# Text
%s

# Entities
%s

# Output Formatting
Return the results as a valid JSON array of objects, where each object has "subject", "predicate", and "object" keys.
Ensure the output is strictly in JSON format, with no additional text.

JSON Output:
`
