package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token"
        }
    },
    "paths": {
        "/register": {
            "post": {"tags": ["Users"], "summary": "Register a new user"}
        },
        "/login": {
            "post": {"tags": ["Users"], "summary": "Log in and obtain a token"}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List the user directory", "security": [{"BearerAuth": []}]}
        },
        "/tasks": {
            "get": {"tags": ["Tasks"], "summary": "List all tasks", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Tasks"], "summary": "Create a task", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get one task", "security": [{"BearerAuth": []}]},
            "put": {"tags": ["Tasks"], "summary": "Apply a version-gated partial update", "security": [{"BearerAuth": []}]},
            "delete": {"tags": ["Tasks"], "summary": "Delete a task", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}/smart-assign": {
            "post": {"tags": ["Tasks"], "summary": "Assign the task to the least-loaded user", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}/comments": {
            "get": {"tags": ["Tasks"], "summary": "List a task's comments", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Tasks"], "summary": "Add a comment", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}/attachments": {
            "get": {"tags": ["Tasks"], "summary": "List a task's attachments", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Tasks"], "summary": "Add attachment metadata", "security": [{"BearerAuth": []}]}
        },
        "/tasks/{id}/attachments/{attachment_id}": {
            "delete": {"tags": ["Tasks"], "summary": "Remove an attachment", "security": [{"BearerAuth": []}]}
        },
        "/logs": {
            "get": {"tags": ["Logs"], "summary": "Read the newest audit entries", "security": [{"BearerAuth": []}]}
        },
        "/board/share": {
            "get": {"tags": ["Board Sharing"], "summary": "Get the caller's sharing status", "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Board Sharing"], "summary": "Toggle public sharing", "security": [{"BearerAuth": []}]}
        },
        "/board/public/{public_id}": {
            "get": {"tags": ["Board Sharing"], "summary": "Read a shared board without authentication"}
        },
        "/events": {
            "get": {"tags": ["Events"], "summary": "Subscribe to the SSE change stream", "security": [{"BearerAuth": []}]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Board API",
	Description:      "Shared task board with version-gated mutations, a structured audit log, and an SSE change stream",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
