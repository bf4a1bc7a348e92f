// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go`.
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
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for an access and refresh token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Rotate a refresh token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated"}}}
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Revoke a refresh token", "responses": {"200": {"description": "OK"}}}
        },
        "/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated"}}}
        },
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/leads": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["leads"],
                "summary": "List leads, newest first",
                "parameters": [
                    {"type": "string", "in": "query", "name": "status"},
                    {"type": "string", "in": "query", "name": "project_id"},
                    {"type": "string", "in": "query", "name": "assigned_to_id"},
                    {"type": "integer", "in": "query", "name": "page"},
                    {"type": "integer", "in": "query", "name": "per_page"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"security": [{"BearerAuth": []}], "tags": ["leads"], "summary": "Create a lead", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "Referenced record missing"}}}
        },
        "/leads/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["leads"], "summary": "Get a lead", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["leads"], "summary": "Update the fields present in the body", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["leads"], "summary": "Delete a lead", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/leads/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["leads"], "summary": "Export leads as csv, xlsx or pdf", "parameters": [{"type": "string", "in": "query", "name": "format"}], "responses": {"200": {"description": "File"}}}
        },
        "/logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "List audit entries", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/logs/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "Export audit entries", "responses": {"200": {"description": "File"}}}
        },
        "/notifications": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "List the caller's notifications", "responses": {"200": {"description": "OK"}}}
        },
        "/analytics/overview": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Pipeline overview", "parameters": [{"type": "string", "in": "query", "name": "project_id"}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "SalesDesk API",
	Description:      "REST API for the SalesDesk real estate CRM",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
