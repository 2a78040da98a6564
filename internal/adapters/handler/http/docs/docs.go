// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g router.go -d internal/adapters/handler/http -o internal/adapters/handler/http/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a bearer token", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/progress": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "List surah progress", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/progress/initialize": {"post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Create missing progress rows", "responses": {"200": {"description": "OK"}}}},
        "/progress/reset": {"post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Reset all progress", "responses": {"200": {"description": "OK"}}}},
        "/progress/total": {"put": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Set progress from a total ayah count", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/progress/surahs/{number}/done": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Mark a surah as read", "parameters": [{"type": "integer", "name": "number", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Clear a surah", "parameters": [{"type": "integer", "name": "number", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/progress/surahs/{number}/increment": {"post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Read one more ayah", "parameters": [{"type": "integer", "name": "number", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/progress/surahs/{number}/decrement": {"post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Undo one ayah", "parameters": [{"type": "integer", "name": "number", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/progress/surahs/{number}/ayahs": {"put": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Set the completed ayah count of a surah", "parameters": [{"type": "integer", "name": "number", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/streak": {"get": {"security": [{"BearerAuth": []}], "tags": ["streak"], "summary": "Current reading streak", "responses": {"200": {"description": "OK"}}}},
        "/streak/preview": {"get": {"security": [{"BearerAuth": []}], "tags": ["streak"], "summary": "Predicted streak", "responses": {"200": {"description": "OK"}}}},
        "/badges": {"get": {"security": [{"BearerAuth": []}], "tags": ["streak"], "summary": "Earned badges", "responses": {"200": {"description": "OK"}}}},
        "/page": {"put": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Move the reading pointer", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/pages/{page}/verses": {"get": {"security": [{"BearerAuth": []}], "tags": ["pages"], "summary": "Verses on a page", "parameters": [{"type": "integer", "name": "page", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/stats/weekly": {"get": {"security": [{"BearerAuth": []}], "tags": ["stats"], "summary": "Reading summary", "parameters": [{"type": "string", "name": "start_date", "in": "query"}, {"type": "string", "name": "end_date", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/ramadan": {"get": {"security": [{"BearerAuth": []}], "tags": ["ramadan"], "summary": "Ramadan progress overview", "responses": {"200": {"description": "OK"}}}},
        "/ramadan/goal": {"put": {"security": [{"BearerAuth": []}], "tags": ["ramadan"], "summary": "Set the daily page goal", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/ramadan/target-date": {"put": {"security": [{"BearerAuth": []}], "tags": ["ramadan"], "summary": "Set or clear the completion deadline", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/ramadan/prayer-times": {"get": {"security": [{"BearerAuth": []}], "tags": ["ramadan"], "summary": "Today's prayer reading plan", "parameters": [{"type": "string", "name": "city", "in": "query", "required": true}, {"type": "string", "name": "country", "in": "query"}], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Khatma Sync Engine API",
	Description:      "Quran reading progress: surahs, ayahs, mushaf pages, streaks and Ramadan goals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
