package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AcadPlan Timetable API",
        "description": "Timetable generation engine for academic periods",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Timetable generation, runs, listings and exports"}
    ],
    "paths": {
        "/timetable/periods/{id}/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the timetable for a whole period",
                "description": "Replaces every assignment of the period. Pass mode=async to run in the background and poll the returned run id.",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["sync", "async"]}
                ],
                "responses": {
                    "200": {"description": "Generation result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Period not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/periods/{id}/cycles/{cycle}/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the timetable for one semester cycle of a period",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "cycle", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Generation result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Scope not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/groups/{id}/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the timetable for a single group",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Generation result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Group not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/runs/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the status of a background generation run",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Run record", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/periods/{id}/assignments": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List a period's committed assignments",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "groupId", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Assignments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/periods/{id}/teachers/{teacherId}/assignments": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List a teacher's weekly timetable within a period",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "teacherId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Assignments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/groups/{id}/assignments": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List a group's weekly timetable",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Assignments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/periods/{id}/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export a period's timetable as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        },
        "/timetable/groups/{id}/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export a group's weekly timetable as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
        "GenerationResult": {
            "type": "object",
            "properties": {
                "scope": {"type": "object"},
                "committed": {"type": "integer"},
                "unresolved": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/UnresolvedSession"}
                },
                "stats": {"type": "object"},
                "warnings": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UnresolvedSession": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "group_code": {"type": "string"},
                "subject_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "required_sessions": {"type": "integer"},
                "committed_sessions": {"type": "integer"},
                "shortfall": {"type": "integer"}
            }
        },
        "GenerationRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "scope": {"type": "object"},
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"]},
                "error": {"type": "string"},
                "stats": {"type": "object"},
                "unresolved": {"type": "integer"},
                "created_at": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
