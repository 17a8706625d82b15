package github

import "github.com/johanforsgren/repodeck/internal/provider/common"

const repositorySchema = `{
  "type": "object",
  "required": ["full_name", "html_url", "name", "owner"],
  "properties": {
    "full_name": {"type": "string", "minLength": 3},
    "html_url": {"type": "string"},
    "name": {"type": "string"},
    "description": {"type": ["string", "null"]},
    "owner": {
      "type": "object",
      "required": ["login", "avatar_url"],
      "properties": {
        "login": {"type": "string"},
        "avatar_url": {"type": "string"}
      }
    }
  }
}`

const issueListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "html_url", "user", "labels"],
    "properties": {
      "id": {"type": "integer"},
      "number": {"type": "integer"},
      "title": {"type": "string"},
      "html_url": {"type": "string"},
      "user": {
        "type": "object",
        "required": ["login", "avatar_url"],
        "properties": {
          "login": {"type": "string"},
          "avatar_url": {"type": "string"}
        }
      },
      "labels": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id", "name"],
          "properties": {
            "id": {"type": "integer"},
            "name": {"type": "string"}
          }
        }
      }
    }
  }
}`

var (
	repositoryValidator = common.MustSchemaValidator("repository", repositorySchema)
	issueListValidator  = common.MustSchemaValidator("issues", issueListSchema)
)
