package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CampusHub API",
        "description": "Enrollment, academic performance and class scheduling service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Students", "description": "Student records and academic performance"},
        {"name": "IntakeCourses", "description": "Intake-course capacity and enrollment counters"},
        {"name": "Results", "description": "Graded results"},
        {"name": "Schedules", "description": "Class schedule generation"},
        {"name": "Facilities", "description": "Rooms and lecturers"},
        {"name": "Dashboard", "description": "Aggregated counts"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "intakeCourseId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/performance": {
            "post": {
                "tags": ["Students"],
                "summary": "Recompute a student's academic performance",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/transcript": {
            "get": {
                "tags": ["Students"],
                "summary": "Download a student transcript as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/intake-courses": {
            "get": {
                "tags": ["IntakeCourses"],
                "summary": "List intake-courses",
                "parameters": [
                    {"name": "intakeId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["IntakeCourses"],
                "summary": "Open a course for an intake",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intake-courses/recompute-enrollments": {
            "post": {
                "tags": ["IntakeCourses"],
                "summary": "Recompute enrollment counters for every intake-course",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intake-courses/{id}/timetable": {
            "get": {
                "tags": ["IntakeCourses"],
                "summary": "Download an intake-course timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "List graded results",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "moduleId", "in": "query", "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Results"],
                "summary": "Record or replace a grade",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertResultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/results/recompute-performance": {
            "post": {
                "tags": ["Results"],
                "summary": "Recompute academic performance for every student",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate a class schedule proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Persist a generated schedule",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{intakeCourseId}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the saved schedule for an intake-course",
                "parameters": [
                    {"name": "intakeCourseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Aggregated counts for the dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "intake_course_id": {"type": "string"},
                "status": {"type": "string"}
            },
            "required": ["user_id", "intake_course_id"]
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "intake_course_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "UpsertResultRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "module_id": {"type": "string"},
                "grade": {"type": "string"},
                "credit_hours": {"type": "integer"},
                "academic_year": {"type": "string"},
                "semester": {"type": "integer"}
            },
            "required": ["student_id", "module_id", "grade", "credit_hours"]
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "intake_course_id": {"type": "string"},
                "classes_per_week": {"type": "integer"},
                "duration_weeks": {"type": "integer"},
                "semester_start": {"type": "string"},
                "seed": {"type": "integer"}
            },
            "required": ["intake_course_id"]
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
