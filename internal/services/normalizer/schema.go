package normalizer

// recordArraySchema constrains structured output to an array of
// normalized records. Field names match the JSON tags on
// models.NormalizedJobRecord so the response unmarshals directly.
func recordArraySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"job_title": map[string]interface{}{
					"type":        "string",
					"description": "Cleaned job title without promotional decorations",
				},
				"company_name": map[string]interface{}{
					"type":        "string",
					"description": "Company name without suffixes like Pvt Ltd",
				},
				"location": map[string]interface{}{
					"type":        "string",
					"description": "City or Remote",
				},
				"experience_min": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum years of experience, 0 when unknown",
				},
				"experience_max": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum years of experience, 0 when unknown",
				},
				"salary_min": map[string]interface{}{
					"type":        "integer",
					"nullable":    true,
					"description": "Annual salary lower bound in INR lakhs, null when undisclosed",
				},
				"salary_max": map[string]interface{}{
					"type":        "integer",
					"nullable":    true,
					"description": "Annual salary upper bound in INR lakhs, null when undisclosed",
				},
				"salary": map[string]interface{}{
					"type":        "string",
					"description": "Human-readable salary, 'Not disclosed' when unknown",
				},
				"application_url": map[string]interface{}{
					"type":        "string",
					"description": "Application link copied verbatim from the input",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Source platform copied verbatim from the input",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "One-line summary of the role",
				},
				"posted": map[string]interface{}{
					"type":        "string",
					"description": "Posting recency, 'Recently' when unknown",
				},
			},
			"required": []string{"job_title", "company_name", "application_url"},
		},
	}
}
