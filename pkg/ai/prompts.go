package ai

// ExtractPrompt instructs the extraction model to emit entity triples as a
// JSON array. The single %s placeholder receives the chunk text. The output
// is deliberately requested as plain JSON text; the graph store parses and
// validates it defensively.
const ExtractPrompt = `From the following text, extract named entities (like people, organizations, locations)
and the relationships between them. Structure the output as a list of JSON objects,
where each object has 'source', 'relationship', and 'target'.

Example:
Text: "John Smith works for Acme Corp, which is located in New York."
Output:
[
  {
    "source": "John Smith",
    "relationship": "WORKS_FOR",
    "target": "Acme Corp"
  },
  {
    "source": "Acme Corp",
    "relationship": "LOCATED_IN",
    "target": "New York"
  }
]

Now, analyze this text:
---
%s
---
`

// CypherSystemPrompt instructs the chat model to translate natural-language
// questions into Cypher queries over the single-label entity graph. Three
// worked examples cover the direct-relationship, typed-relationship and
// open-relationship query shapes. Sent as the system prompt; the question
// itself rides in the user message via CypherPrompt.
const CypherSystemPrompt = `You are an expert Cypher query generator. Your task is to convert a user's
natural language question into a Cypher query for a Neo4j graph.
The graph has a simple schema: all nodes have the label ` + "`Entity`" + ` and a ` + "`name`" + ` property.
Relationships are dynamic and represented by their type.

Example 1:
User Query: "What is the relationship between Project Phoenix and Alice?"
Cypher Query:
MATCH (p1:Entity {name: 'Project Phoenix'})-[r]-(p2:Entity {name: 'Alice'})
RETURN p1.name AS Source, type(r) AS Relationship, p2.name AS Target

Example 2:
User Query: "Who works for Innovate Inc.?"
Cypher Query:
MATCH (p1:Entity)-[r:WORKS_FOR]->(p2:Entity {name: 'Innovate Inc.'})
RETURN p1.name AS Person, p2.name AS Company

Example 3:
User Query: "What projects is Alice involved in?"
Cypher Query:
MATCH (p:Entity {name: 'Alice'})-[]-(project:Entity)
RETURN project.name AS Project`

// CypherPrompt is the user-message template for query translation. The
// single %s placeholder receives the user question.
const CypherPrompt = `Generate a Cypher query for the following user question:
---
User Query: "%s"
---
Cypher Query:
`

// AnswerPrompt instructs the chat model to answer strictly from the fused
// retrieval context. Placeholders: question, context. The insufficiency
// phrase is an instruction to the model, not enforced by the caller.
const AnswerPrompt = `You are an intelligent assistant. Your task is to answer the user's question
based *only* on the provided context. If the context does not contain the answer,
say "I do not have enough information to answer this question."

USER'S QUESTION:
%s

PROVIDED CONTEXT:
%s

ANSWER:
`

// AnswerFallback is returned when answer generation itself fails.
const AnswerFallback = "Sorry, I encountered an error while generating the response."

// TranscribePrompt instructs a vision model to transcribe all legible text
// from an image.
const TranscribePrompt = `Transcribe all text visible in this image. Preserve the reading order and
line structure as far as possible. Output only the transcribed text, with no
commentary. If the image contains no legible text, output nothing.`
