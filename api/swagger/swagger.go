package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exam Seating API",
        "description": "Seats students room by room, assigns proctors, locates seats and exports the arrangement.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Seating", "description": "Seat allocation, proctor assignment and seat lookup"},
        {"name": "Exports", "description": "Asynchronous exports with signed downloads"},
        {"name": "Authentication", "description": "Administrator login"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate the administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/plan": {
            "post": {
                "tags": ["Seating"],
                "summary": "Build a seating plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "room", "in": "query", "type": "string", "description": "Only return this room"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Plan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "CONFIGURATION_ERROR or VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "CAPACITY_ERROR or INSUFFICIENT_PROCTORS", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/upload": {
            "post": {
                "tags": ["Seating"],
                "summary": "Build a seating plan from CSV uploads",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "students", "in": "formData", "type": "file", "required": true, "description": "Roster with a Roll Number column"},
                    {"name": "proctors", "in": "formData", "type": "file", "required": true, "description": "Proctor names in the first column"},
                    {"name": "rooms", "in": "formData", "type": "integer"},
                    {"name": "rows", "in": "formData", "type": "integer"},
                    {"name": "columns", "in": "formData", "type": "integer"},
                    {"name": "startTime", "in": "formData", "type": "string"},
                    {"name": "endTime", "in": "formData", "type": "string"},
                    {"name": "rename", "in": "formData", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "N=Name"},
                    {"name": "room", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Plan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "MISSING_COLUMN, CONFIGURATION_ERROR or VALIDATION_ERROR", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "CAPACITY_ERROR or INSUFFICIENT_PROCTORS", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/search": {
            "post": {
                "tags": ["Seating"],
                "summary": "Locate a student's seat",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeatSearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Match and plan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/seating/export": {
            "post": {
                "tags": ["Seating"],
                "summary": "Download every room as one file",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "all_rooms.csv or all_rooms.pdf", "schema": {"type": "file"}}
                }
            }
        },
        "/seating/runs": {
            "get": {
                "tags": ["Seating"],
                "summary": "Recent seating runs",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Runs", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Audit disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export of every room",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Export jobs disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
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
        },
        "RoomRename": {
            "type": "object",
            "properties": {
                "index": {"type": "integer", "minimum": 1},
                "name": {"type": "string"}
            }
        },
        "SeatingRequest": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"type": "string"}},
                "proctors": {"type": "array", "items": {"type": "string"}},
                "rooms": {"type": "integer"},
                "rows": {"type": "integer"},
                "columns": {"type": "integer"},
                "renames": {"type": "array", "items": {"$ref": "#/definitions/RoomRename"}},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            }
        },
        "SeatSearchRequest": {
            "allOf": [
                {"$ref": "#/definitions/SeatingRequest"},
                {"type": "object", "properties": {"rollNumber": {"type": "string"}}}
            ]
        },
        "ExportJobRequest": {
            "allOf": [
                {"$ref": "#/definitions/SeatingRequest"},
                {"type": "object", "properties": {"format": {"type": "string", "enum": ["csv", "pdf"]}}}
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
