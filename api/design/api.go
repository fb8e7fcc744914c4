package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("creatorsite", func() {
	Title("Creator Site API")
	Description("Lead ingestion and partnership pipeline backend for a creator's site")
	Version("1.0.0")
	Server("api", func() {
		Host("localhost", func() {
			URI("http://localhost:8000")
		})
	})
})

// AppError is the body of every error response.
var AppError = Type("AppError", func() {
	Description("Error response")
	ErrorName("name", String, "Error name", func() {
		Example("bad_request")
	})
	Attribute("id", String, "Request correlation id")
	Attribute("message", String, "Error message", func() {
		Example("lead 2 is missing company_name")
	})
	Attribute("field", String, "Offending input field", func() {
		Example("leads[1]")
	})
	Attribute("fault", Boolean, "Server-side fault")
	Required("name", "message", "fault")
})

// JWT Security
var JWTAuth = JWTSecurity("jwt", func() {
	Description("Operator session token issued by login")
})

var statusEnum = []any{"new", "contacted", "replied", "negotiating", "contract_sent", "closed_won", "dead"}
var categoryEnum = []any{"beauty", "skincare", "lifestyle", "home", "wellness", "fashion", "food", "tech", "other"}
var sourceEnum = []any{"ai-search", "inbound", "upload", "competitor", "manual"}
var emailTypeEnum = []any{"first_outreach", "followup1", "followup2", "negotiation", "contract"}

// Health check
var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/health")
			Response(StatusOK)
		})
	})
})

var HealthResult = Type("HealthResult", func() {
	Attribute("status", String, "Service status", func() {
		Enum("healthy", "degraded")
	})
	Attribute("service", String, "Service name")
	Attribute("storage", String, "Record store status", func() {
		Enum("ok", "unavailable")
	})
	Required("status", "service", "storage")
})

// Authentication service
var _ = Service("auth", func() {
	Description("Operator session service")
	Error("bad_request", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("login", func() {
		Description("Exchange operator credentials for a session token")
		Payload(func() {
			Attribute("username", String, "Operator username", func() {
				MinLength(1)
			})
			Attribute("password", String, "Operator password", func() {
				MinLength(1)
			})
			Required("username", "password")
		})
		Result(LoginResult)
		HTTP(func() {
			POST("/api/v1/auth/login")
			Response(StatusOK)
		})
	})

	Method("logout", func() {
		Description("Revoke the presented session token")
		Security(JWTAuth)
		Payload(func() {
			Token("token", String, "JWT token")
		})
		Result(MessageResult)
		HTTP(func() {
			POST("/api/v1/auth/logout")
			Response(StatusOK)
		})
	})

	Method("me", func() {
		Description("Describe the current session")
		Security(JWTAuth)
		Payload(func() {
			Token("token", String, "JWT token")
		})
		Result(func() {
			Attribute("username", String)
			Attribute("expires_at", String, func() {
				Format(FormatDateTime)
			})
			Required("username", "expires_at")
		})
		HTTP(func() {
			GET("/api/v1/auth/me")
			Response(StatusOK)
		})
	})
})

var LoginResult = Type("LoginResult", func() {
	Attribute("access_token", String, "JWT access token")
	Attribute("token_type", String, "Token type", func() {
		Default("bearer")
		Example("bearer")
	})
	Attribute("expires_in", Int, "Seconds until the token expires")
	Required("access_token", "token_type", "expires_in")
})

var MessageResult = Type("MessageResult", func() {
	Attribute("message", String, func() {
		Example("Successfully logged out")
	})
	Required("message")
})

// Contact form
var _ = Service("contact", func() {
	Description("Public contact form and its operator inbox")
	Error("bad_request", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("submit", func() {
		Description("Store a contact message and open an inbound lead for it")
		Payload(func() {
			Attribute("name", String, func() {
				MinLength(1)
			})
			Attribute("email", String, func() {
				Format(FormatEmail)
			})
			Attribute("company", String)
			Attribute("message", String, func() {
				MinLength(1)
			})
			Required("name", "email", "message")
		})
		Result(func() {
			Attribute("id", String, "Submission id")
			Attribute("message", String, func() {
				Example("Thank you for your message! I'll get back to you within 48 hours.")
			})
			Required("id", "message")
		})
		HTTP(func() {
			POST("/api/v1/contact/submit")
			Response(StatusCreated)
		})
	})

	Method("list", func() {
		Description("List contact submissions, newest first")
		Security(JWTAuth)
		Payload(func() {
			Token("token", String, "JWT token")
		})
		Result(ArrayOf(ContactSubmission))
		HTTP(func() {
			GET("/api/v1/contact")
			Response(StatusOK)
		})
	})
})

var ContactSubmission = Type("ContactSubmission", func() {
	Attribute("id", String)
	Attribute("name", String)
	Attribute("email", String)
	Attribute("company", String)
	Attribute("message", String)
	Attribute("created_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "name", "email", "message", "created_at")
})

// Leads service
var _ = Service("leads", func() {
	Description("Lead intake and pipeline management")
	Security(JWTAuth)
	Error("bad_request", AppError)
	Error("invalid_status", AppError)
	Error("not_found", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("invalid_status", StatusBadRequest)
		Response("not_found", StatusNotFound)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("list", func() {
		Description("List leads newest first, optionally filtered")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("status", String, "Status filter; empty or all keeps every lead")
			Attribute("search", String, "Case-insensitive match on company name or contact email")
		})
		Result(func() {
			Attribute("count", Int)
			Attribute("leads", ArrayOf(Lead))
			Required("count", "leads")
		})
		HTTP(func() {
			GET("/api/v1/leads")
			Param("status")
			Param("search")
			Response(StatusOK)
		})
	})

	Method("create", func() {
		Description("Create one lead from a raw object")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("source", String, func() {
				Enum(sourceEnum...)
			})
			Attribute("default_category", String, func() {
				Enum(categoryEnum...)
			})
			Attribute("fields", MapOf(String, Any), "Raw lead object")
			Required("fields")
		})
		Result(Lead)
		HTTP(func() {
			POST("/api/v1/leads")
			Param("source")
			Param("default_category")
			Body("fields")
			Response(StatusCreated)
		})
	})

	Method("stats", func() {
		Description("Count leads per status")
		Payload(func() {
			Token("token", String, "JWT token")
		})
		Result(func() {
			Attribute("total", Int)
			Attribute("by_status", MapOf(String, Int))
			Required("total", "by_status")
		})
		HTTP(func() {
			GET("/api/v1/leads/stats")
			Response(StatusOK)
		})
	})

	Method("preview", func() {
		Description("Parse and normalize a batch without storing it")
		Payload(ImportPayload)
		Result(func() {
			Attribute("count", Int)
			Attribute("leads", ArrayOf(Any))
			Required("count", "leads")
		})
		HTTP(func() {
			POST("/api/v1/leads/import/preview")
			Response(StatusOK)
		})
	})

	Method("import", func() {
		Description("Parse, normalize and store a batch; the first invalid element rejects it")
		Payload(ImportPayload)
		Result(func() {
			Attribute("count", Int)
			Attribute("leads", ArrayOf(Lead))
			Required("count", "leads")
		})
		HTTP(func() {
			POST("/api/v1/leads/import")
			Response(StatusCreated)
		})
	})

	Method("get", func() {
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Required("id")
		})
		Result(Lead)
		HTTP(func() {
			GET("/api/v1/leads/{id}")
			Response(StatusOK)
		})
	})

	Method("update", func() {
		Description("Merge a partial update into a lead")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Attribute("company_name", String)
			Attribute("contact_name", String)
			Attribute("contact_email", String)
			Attribute("website", String)
			Attribute("category", String)
			Attribute("status", String, func() {
				Enum(statusEnum...)
			})
			Attribute("socials", Socials)
			Attribute("ai_pitch", String)
			Attribute("notes", String)
			Required("id")
		})
		Result(Lead)
		HTTP(func() {
			PATCH("/api/v1/leads/{id}")
			Response(StatusOK)
		})
	})

	Method("delete", func() {
		Description("Delete a lead and its emails")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Required("id")
		})
		Result(DeleteResult)
		HTTP(func() {
			DELETE("/api/v1/leads/{id}")
			Response(StatusOK)
		})
	})

	Method("list_emails", func() {
		Description("List a lead's emails in creation order")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String, "Lead id")
			Required("id")
		})
		Result(ArrayOf(EmailDraft))
		HTTP(func() {
			GET("/api/v1/leads/{id}/emails")
			Response(StatusOK)
		})
	})
})

var ImportPayload = Type("ImportPayload", func() {
	Token("token", String, "JWT token")
	Attribute("text", String, "Pasted assistant output holding a JSON array")
	Attribute("leads", ArrayOf(Any), "Already decoded lead objects; wins over text")
	Attribute("source", String, func() {
		Enum(sourceEnum...)
		Default("ai-search")
	})
})

var Socials = Type("Socials", func() {
	Attribute("instagram", String)
	Attribute("tiktok", String)
	Attribute("youtube", String)
})

var Lead = Type("Lead", func() {
	Attribute("id", String)
	Attribute("company_name", String)
	Attribute("contact_name", String)
	Attribute("contact_email", String)
	Attribute("website", String)
	Attribute("category", String, func() {
		Enum(categoryEnum...)
	})
	Attribute("source", String, func() {
		Enum(sourceEnum...)
	})
	Attribute("status", String, func() {
		Enum(statusEnum...)
	})
	Attribute("socials", Socials)
	Attribute("ai_pitch", String)
	Attribute("notes", String)
	Attribute("created_at", String, func() {
		Format(FormatDateTime)
	})
	Attribute("updated_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "company_name", "category", "source", "status", "socials", "created_at", "updated_at")
})

var DeleteResult = Type("DeleteResult", func() {
	Attribute("deleted", Boolean, "False when the id did not exist")
	Required("deleted")
})

// Email drafts
var _ = Service("emails", func() {
	Description("Outreach email drafts attached to leads")
	Security(JWTAuth)
	Error("bad_request", AppError)
	Error("not_found", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("not_found", StatusNotFound)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("create", func() {
		Description("Save a draft; a SUBJECT: line in draft sets the subject")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("lead_id", String)
			Attribute("subject", String)
			Attribute("body", String)
			Attribute("type", String, func() {
				Enum(emailTypeEnum...)
			})
			Attribute("draft", String, "Pasted assistant draft")
			Required("lead_id")
		})
		Result(EmailDraft)
		HTTP(func() {
			POST("/api/v1/emails")
			Response(StatusCreated)
		})
	})

	Method("update", func() {
		Description("Edit a draft or record sent, opened and replied")
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Attribute("subject", String)
			Attribute("body", String)
			Attribute("type", String, func() {
				Enum(emailTypeEnum...)
			})
			Attribute("sent", Boolean)
			Attribute("opened", Boolean)
			Attribute("replied", Boolean)
			Required("id")
		})
		Result(EmailDraft)
		HTTP(func() {
			PATCH("/api/v1/emails/{id}")
			Response(StatusOK)
		})
	})

	Method("delete", func() {
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Required("id")
		})
		Result(DeleteResult)
		HTTP(func() {
			DELETE("/api/v1/emails/{id}")
			Response(StatusOK)
		})
	})
})

var EmailDraft = Type("Email", func() {
	Attribute("id", String)
	Attribute("lead_id", String)
	Attribute("subject", String)
	Attribute("body", String)
	Attribute("type", String, func() {
		Enum(emailTypeEnum...)
	})
	Attribute("sent_at", String, func() {
		Format(FormatDateTime)
	})
	Attribute("opened", Boolean)
	Attribute("replied", Boolean)
	Attribute("created_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "lead_id", "subject", "body", "type", "opened", "replied", "created_at")
})

// Brand assets
var _ = Service("brand_assets", func() {
	Description("Media kit and other files shared with brands")
	Security(JWTAuth)
	Error("bad_request", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("list", func() {
		Payload(func() {
			Token("token", String, "JWT token")
		})
		Result(ArrayOf(BrandAsset))
		HTTP(func() {
			GET("/api/v1/brand-assets")
			Response(StatusOK)
		})
	})

	Method("create", func() {
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("name", String, func() {
				MinLength(1)
			})
			Attribute("file_url", String, func() {
				MinLength(1)
			})
			Attribute("type", String, func() {
				Enum("media_kit", "analytics", "examples", "moodboard")
			})
			Required("name", "file_url", "type")
		})
		Result(BrandAsset)
		HTTP(func() {
			POST("/api/v1/brand-assets")
			Response(StatusCreated)
		})
	})

	Method("delete", func() {
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("id", String)
			Required("id")
		})
		Result(DeleteResult)
		HTTP(func() {
			DELETE("/api/v1/brand-assets/{id}")
			Response(StatusOK)
		})
	})
})

var BrandAsset = Type("BrandAsset", func() {
	Attribute("id", String)
	Attribute("name", String)
	Attribute("file_url", String)
	Attribute("type", String)
	Attribute("uploaded_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "name", "file_url", "type", "uploaded_at")
})

// Assistant prompts
var _ = Service("prompts", func() {
	Description("Copy-ready prompts for the operator's AI assistant")
	Security(JWTAuth)
	Error("bad_request", AppError)
	Error("not_found", AppError)
	Error("unauthorized", AppError)
	HTTP(func() {
		Response("bad_request", StatusBadRequest)
		Response("not_found", StatusNotFound)
		Response("unauthorized", StatusUnauthorized)
	})

	Method("render", func() {
		Payload(func() {
			Token("token", String, "JWT token")
			Attribute("kind", String, "discovery, competitor, pitch, outreach or followup; others are not_found")
			Attribute("category", String)
			Attribute("count", Int)
			Attribute("brand", String)
			Attribute("company", String)
			Attribute("website", String)
			Attribute("contact_name", String)
			Attribute("pitch", String)
			Attribute("followup_number", Int)
			Attribute("original_subject", String)
			Required("kind")
		})
		Result(func() {
			Attribute("kind", String)
			Attribute("prompt", String)
			Required("kind", "prompt")
		})
		HTTP(func() {
			POST("/api/v1/prompts/{kind}")
			Response(StatusOK)
		})
	})
})
