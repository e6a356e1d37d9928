package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AcadPort API",
        "description": "Department portal for marks, attendance, and the academic assistant",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session introspection"},
        {"name": "Assistant", "description": "AI academic assistant"},
        {"name": "Subjects", "description": "Subject management and teacher assignment"},
        {"name": "Students", "description": "Student roster"},
        {"name": "Attendance", "description": "CSV ingestion and upload history"},
        {"name": "Dashboard", "description": "Department overview"},
        {"name": "Reports", "description": "Downloadable exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/assistant/ask": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Ask the academic assistant",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing question"},
                    "403": {"description": "No department context"},
                    "502": {"description": "Upstream failure"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate code"}
                }
            }
        },
        "/subjects/{id}": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/subjects/{id}/teacher": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Assign teacher",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove teacher",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List teachers available for assignment",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/upload": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Upload an attendance CSV",
                "responses": {
                    "200": {"description": "Processed"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/attendance/uploads": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Upload history",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Department overview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/attendance": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download attendance report",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
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
                "pagination": {"type": "object"},
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
