// Package docs holds the swagger document served under /swagger.
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
        "/session": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign in",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/me/role": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change own role",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "List matches",
                "parameters": [
                    {"type": "string", "description": "scheduled, completed or cancelled", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Page number (default: 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default: 10, max: 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Create a match",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/matches/upcoming": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Upcoming matches",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of matches (default: 3)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get match by ID",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Replace a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Delete a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/matches/{id}/join": {
            "post": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Join a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Full, already joined or closed"}}
            }
        },
        "/matches/{id}/leave": {
            "post": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Leave a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{id}/complete": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Complete a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{id}/cancel": {
            "post": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Cancel a match",
                "parameters": [{"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}
            }
        },
        "/matches/{id}/route": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Route to the match venue",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "id", "in": "path", "required": true},
                    {"type": "number", "description": "Current latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Current longitude", "name": "lng", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "422": {"description": "Venue could not be located"}}
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Get the user's stats",
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Patch counters",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Reset all counters",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/stats/ratings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Add a rating",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/venues": {
            "get": {
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "List venues",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/venues/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["venues"],
                "summary": "Get venue by ID",
                "parameters": [{"type": "string", "description": "Venue ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/routes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["routes"],
                "summary": "Route between two points",
                "parameters": [
                    {"type": "string", "description": "Start as lat,lng", "name": "from", "in": "query", "required": true},
                    {"type": "string", "description": "End as lat,lng", "name": "to", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Futsapp REST API",
	Description:      "Futsal match organizer: matches, player stats, venues and routes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
