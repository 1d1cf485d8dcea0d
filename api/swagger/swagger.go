package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Classwork API",
        "description": "Assignment workflow for teachers and students",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Sessions and role-based routing"},
        {"name": "Assignments", "description": "Teacher assignment lifecycle"},
        {"name": "Submissions", "description": "Student submissions"},
        {"name": "Dashboard", "description": "Per-role landing pages"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for tokens",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}, "429": {"description": "Rate limited"}}
            }
        },
        "/auth/refresh": {
            "post": {"tags": ["Auth"], "summary": "Rotate the refresh token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Revoke the refresh token", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/auth/route": {
            "get": {
                "tags": ["Auth"],
                "summary": "Resolve a role-gated page",
                "parameters": [
                    {"in": "query", "name": "role", "type": "string", "enum": ["teacher", "student"]},
                    {"in": "query", "name": "page", "type": "string"},
                    {"in": "query", "name": "loading", "type": "boolean"}
                ],
                "responses": {"200": {"description": "Route decision", "schema": {"$ref": "#/definitions/RouteDecision"}}}
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List own assignments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "status", "type": "string", "description": "comma separated draft,published,completed"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create a draft",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation"}}
            }
        },
        "/assignments/analytics": {
            "get": {"tags": ["Assignments"], "summary": "Teacher analytics snapshot", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/assignments/{id}": {
            "get": {"tags": ["Assignments"], "summary": "Get assignment", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Assignments"], "summary": "Edit a draft", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state"}}},
            "delete": {"tags": ["Assignments"], "summary": "Delete a draft", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Invalid state"}}}
        },
        "/assignments/{id}/publish": {
            "post": {"tags": ["Assignments"], "summary": "Publish a draft", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state"}}}
        },
        "/assignments/{id}/complete": {
            "post": {"tags": ["Assignments"], "summary": "Close a published assignment", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid state"}}}
        },
        "/assignments/{id}/submissions": {
            "get": {"tags": ["Assignments"], "summary": "Submissions for an assignment", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/assignments/{id}/submissions/export": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Download submissions",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "Attachment"}}
            }
        },
        "/assignments/submissions/{submissionId}/review": {
            "post": {"tags": ["Assignments"], "summary": "Mark a submission reviewed", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "submissionId", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/submissions": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit an answer",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubmissionRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate or invalid state"}, "422": {"description": "Deadline passed"}}
            }
        },
        "/submissions/assignments": {
            "get": {"tags": ["Submissions"], "summary": "Published assignments for students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/submissions/assignment/{assignmentId}": {
            "get": {"tags": ["Submissions"], "summary": "Own submission", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "assignmentId", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/dashboard/teacher": {
            "get": {"tags": ["Dashboard"], "summary": "Teacher dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard/student": {
            "get": {"tags": ["Dashboard"], "summary": "Student dashboard", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "dueDate": {"type": "string", "format": "date-time"}}
        },
        "CreateSubmissionRequest": {
            "type": "object",
            "properties": {"assignmentId": {"type": "string"}, "answer": {"type": "string"}}
        },
        "RouteDecision": {
            "type": "object",
            "properties": {"outcome": {"type": "string", "enum": ["allow", "wait", "redirect"]}, "redirect": {"type": "string"}}
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "itemsPerPage": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
