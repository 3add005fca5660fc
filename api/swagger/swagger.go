package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ALDA Appointment Planner API",
        "description": "Day-plan scheduling service with timeline placement, gap queries and schedule exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Plans", "description": "Day plan lifecycle"},
        {"name": "Appointments", "description": "Appointment placement within a plan"},
        {"name": "Availability", "description": "Cross-plan free slot matching"},
        {"name": "Exports", "description": "Asynchronous schedule exports"},
        {"name": "Metrics", "description": "Operational metrics"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create a planner account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/UserInfo"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens rotated", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid refresh token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the active refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session revoked"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change the current user's password",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password changed"},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Describe the authenticated user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Current user", "schema": {"$ref": "#/definitions/UserInfo"}}
                }
            }
        },
        "/plans": {
            "post": {
                "tags": ["Plans"],
                "summary": "Create a day plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Plan created", "schema": {"$ref": "#/definitions/PlanResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Plans"],
                "summary": "List day plans",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "ownerId", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Plans", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}": {
            "get": {
                "tags": ["Plans"],
                "summary": "Fetch a plan with its appointments and gaps",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Plan detail", "schema": {"$ref": "#/definitions/PlanDetailResponse"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plans"],
                "summary": "Delete a plan and its appointments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Plan deleted"},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/appointments": {
            "post": {
                "tags": ["Appointments"],
                "summary": "Place an appointment on the plan timeline",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Appointment placed", "schema": {"$ref": "#/definitions/AppointmentResponse"}},
                    "409": {"description": "No fitting slot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Appointments"],
                "summary": "List the plan's appointments in timeline order",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Appointments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Appointments"],
                "summary": "Remove every appointment matching the filters",
                "description": "Empty filters clear the plan. Removed requests are echoed in timeline order.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "description", "in": "query", "type": "string", "description": "Exact description to match"},
                    {"name": "priority", "in": "query", "type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]}
                ],
                "responses": {
                    "200": {"description": "Removed appointments", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/appointments/{appointmentId}": {
            "delete": {
                "tags": ["Appointments"],
                "summary": "Remove an appointment and echo its original request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "appointmentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Removed appointment", "schema": {"$ref": "#/definitions/RemovedAppointmentResponse"}},
                    "404": {"description": "Appointment not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/gaps": {
            "get": {
                "tags": ["Plans"],
                "summary": "List free gaps on the plan timeline",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "fit", "in": "query", "type": "integer", "description": "Only gaps of at least this many minutes"},
                    {"name": "order", "in": "query", "type": "string", "enum": ["natural", "reversed", "largest", "smallest"]}
                ],
                "responses": {
                    "200": {"description": "Gaps", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/can-add": {
            "get": {
                "tags": ["Plans"],
                "summary": "Check whether a duration still fits the plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "duration", "in": "query", "required": true, "type": "integer", "description": "Appointment length in minutes"}
                ],
                "responses": {
                    "200": {"description": "Fit verdict", "schema": {"$ref": "#/definitions/CanAddResponse"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/render": {
            "get": {
                "tags": ["Plans"],
                "summary": "Render the plan as plain text",
                "security": [{"BearerAuth": []}],
                "produces": ["text/plain"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered plan", "schema": {"type": "string"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/{id}/export.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the plan's schedule as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Find slots free in every given plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "planIds", "in": "query", "required": true, "type": "string", "description": "Comma separated plan ids"},
                    {"name": "duration", "in": "query", "required": true, "type": "integer", "description": "Minimum slot length in minutes"}
                ],
                "responses": {
                    "200": {"description": "Matching slots", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a schedule export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Job queued", "schema": {"$ref": "#/definitions/ExportJobResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Report export job progress",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Job status", "schema": {"$ref": "#/definitions/ExportStatusResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export file"},
                    "404": {"description": "Unknown or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit": {
            "get": {
                "tags": ["Auth"],
                "summary": "List audit logs, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "query", "type": "string"},
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Audit entries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admins only", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/system": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Snapshot in-process counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Metrics snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "full_name": {"type": "string"}
            },
            "required": ["email", "password", "full_name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/UserInfo"},
                "issued_at": {"type": "string", "format": "date-time"}
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "PLANNER", "VIEWER"]}
            }
        },
        "CreatePlanRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"},
                "timezone": {"type": "string"},
                "dayStart": {"type": "string", "example": "08:30"},
                "dayEnd": {"type": "string", "example": "17:30"}
            },
            "required": ["date"]
        },
        "PlanResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "ownerId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "timezone": {"type": "string"},
                "dayStart": {"type": "string"},
                "dayEnd": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "PlanDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "ownerId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "timezone": {"type": "string"},
                "dayStart": {"type": "string"},
                "dayEnd": {"type": "string"},
                "nrOfAppointments": {"type": "integer"},
                "nrOfGaps": {"type": "integer"},
                "appointments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AppointmentResponse"}
                },
                "gaps": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/GapResponse"}
                }
            }
        },
        "AddAppointmentRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "durationMinutes": {"type": "integer", "minimum": 1},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
                "start": {"type": "string", "example": "09:00"},
                "preference": {"type": "string", "enum": ["EARLIEST", "LATEST", "EARLIEST_AFTER", "LATEST_BEFORE", "UNSPECIFIED"]},
                "fallback": {"type": "string", "enum": ["EARLIEST", "LATEST"]}
            },
            "required": ["description", "durationMinutes"]
        },
        "AppointmentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "description": {"type": "string"},
                "priority": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "preference": {"type": "string"},
                "requestedStart": {"type": "string"}
            }
        },
        "RemovedAppointmentResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "priority": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "preference": {"type": "string"},
                "requestedStart": {"type": "string"}
            }
        },
        "GapResponse": {
            "type": "object",
            "properties": {
                "start": {"type": "string"},
                "end": {"type": "string"},
                "durationMinutes": {"type": "integer"}
            }
        },
        "CanAddResponse": {
            "type": "object",
            "properties": {
                "durationMinutes": {"type": "integer"},
                "canAdd": {"type": "boolean"}
            }
        },
        "FreeSlotResponse": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "durationMinutes": {"type": "integer"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["schedule", "availability"]},
                "planId": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "fitMinutes": {"type": "integer"}
            },
            "required": ["type", "planId", "format"]
        },
        "ExportJobResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "PROCESSING", "FINISHED", "FAILED"]},
                "progress": {"type": "integer"}
            }
        },
        "ExportStatusResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "PROCESSING", "FINISHED", "FAILED"]},
                "progress": {"type": "integer"},
                "resultUrl": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "AuditLog": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "action": {"type": "string"},
                "resource": {"type": "string"},
                "resource_id": {"type": "string"},
                "ip_address": {"type": "string"},
                "user_agent": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
