package driver

var IndexQueries = []string{
	"CREATE INDEX ON :TopicEmbedding(key);",
	"CREATE INDEX ON :TopicEmbedding(model);",
}

const (
	SaveTopicEmbeddingsQuery = `
		UNWIND $rows AS row
		MERGE (e:TopicEmbedding {key: row.key})
		SET e.model = row.model,
			e.text = row.text,
			e.vector = row.vector,
			e.dimensions = row.dimensions,
			e.updated_at = row.updated_at
		RETURN count(e) AS saved
	`

	GetTopicEmbeddingsQuery = `
		UNWIND $keys AS key
		MATCH (e:TopicEmbedding {key: key})
		RETURN e.key AS key, e.vector AS vector
	`
)
