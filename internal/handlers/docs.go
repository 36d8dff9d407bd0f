package handlers

import (
	"encoding/json"
	"net/http"
)

// Shared OpenAPI schema fragments. The engine reports absence as null, so
// every derived value is nullable in the documented schemas.
var (
	fieldsSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":                   map[string]string{"type": "string"},
			"tire_size":            map[string]string{"type": "string"},
			"rim_diameter_in":      map[string]interface{}{"type": "number", "nullable": true},
			"rim_width_in":         map[string]interface{}{"type": "number", "nullable": true},
			"offset_mm":            map[string]interface{}{"type": "number", "nullable": true},
			"spacer_mm":            map[string]interface{}{"type": "number", "nullable": true},
			"width_correction_pct": map[string]interface{}{"type": "number", "nullable": true},
		},
	}

	parsedSizeSchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"notation":            map[string]interface{}{"type": "string", "enum": []string{"metric", "flotation"}},
			"section_width_mm":    map[string]string{"type": "integer"},
			"aspect_ratio_pct":    map[string]string{"type": "integer"},
			"overall_diameter_in": map[string]string{"type": "number"},
			"section_width_in":    map[string]string{"type": "number"},
			"rim_diameter_in":     map[string]string{"type": "integer"},
		},
	}

	tireGeometrySchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"rim_diameter_in":      map[string]string{"type": "number"},
			"section_width_mm":     map[string]string{"type": "number"},
			"sidewall_mm":          map[string]string{"type": "number"},
			"overall_diameter_mm":  map[string]string{"type": "number"},
			"circumference_mm":     map[string]string{"type": "number"},
			"revolutions_per_mile": map[string]string{"type": "number"},
		},
	}

	wheelGeometrySchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"effective_offset_mm": map[string]string{"type": "number"},
			"half_width_mm":       map[string]string{"type": "number"},
			"backspacing_mm":      map[string]string{"type": "number"},
			"frontspacing_mm":     map[string]string{"type": "number"},
		},
	}

	mismatchSchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"tire_rim_in":  map[string]string{"type": "number"},
			"wheel_rim_in": map[string]string{"type": "number"},
		},
	}

	setupSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fields":   fieldsSchema,
			"size":     parsedSizeSchema,
			"tire":     tireGeometrySchema,
			"wheel":    wheelGeometrySchema,
			"mismatch": mismatchSchema,
		},
	}

	comparisonSchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"ride_height_delta_mm":  map[string]string{"type": "number"},
			"inner_move_mm":         map[string]interface{}{"type": "number", "nullable": true},
			"outer_move_mm":         map[string]interface{}{"type": "number", "nullable": true},
			"speedometer_error_pct": map[string]string{"type": "number"},
		},
	}

	verdictSchema = map[string]interface{}{
		"type":     "object",
		"nullable": true,
		"properties": map[string]interface{}{
			"resulting_clearance_mm": map[string]string{"type": "number"},
			"minimum_required_mm":    map[string]string{"type": "number"},
			"passed":                 map[string]string{"type": "boolean"},
		},
	}

	verdictsSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"inner": verdictSchema,
			"outer": verdictSchema,
		},
	}

	errorSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"error":   map[string]string{"type": "string"},
			"message": map[string]string{"type": "string"},
			"code":    map[string]string{"type": "integer"},
		},
	}

	sessionViewSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":                 map[string]string{"type": "string", "format": "uuid"},
			"name":               map[string]string{"type": "string"},
			"unit_mode":          map[string]interface{}{"type": "string", "enum": []string{"metric", "imperial"}},
			"selected_token":     map[string]string{"type": "string"},
			"inner_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
			"outer_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
			"created_at":         map[string]string{"type": "string", "format": "date-time"},
			"updated_at":         map[string]string{"type": "string", "format": "date-time"},
			"baseline_state":     map[string]interface{}{"type": "string", "enum": []string{"absent", "valid", "rejected"}},
			"baseline":           setupSchema,
			"candidates": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"setup":      setupSchema,
						"comparison": comparisonSchema,
						"verdicts":   verdictsSchema,
					},
				},
			},
		},
	}
)

func jsonContent(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"application/json": map[string]interface{}{"schema": schema},
	}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the Fitment Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Fitment Platform API",
			"description": "Tire and wheel fitment calculation platform: size parsing, geometry derivation, baseline/candidate comparison, clearance verdicts, and saved sessions",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Fitment Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/fitment/parse": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Parse a tire size",
					"description": "Parse a tire-size string in metric (225/45R17) or flotation (31X10.5R15) notation. Unparsable input yields parsed:null, not an error.",
					"parameters": []map[string]interface{}{
						{
							"name":        "size",
							"in":          "query",
							"description": "Raw tire-size string",
							"required":    true,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Parse outcome",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"input":  map[string]string{"type": "string"},
									"parsed": parsedSizeSchema,
								},
							}),
						},
						"400": map[string]interface{}{
							"description": "Missing size parameter",
							"content":     jsonContent(errorSchema),
						},
					},
				},
			},
			"/api/fitment/setup": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Resolve a setup",
					"description": "Resolve raw fields into a full setup snapshot. Missing or unparsable inputs propagate as nulls in the derived fields.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content":  jsonContent(fieldsSchema),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Resolved setup",
							"content":     jsonContent(setupSchema),
						},
						"400": map[string]interface{}{
							"description": "Invalid JSON body",
							"content":     jsonContent(errorSchema),
						},
					},
				},
			},
			"/api/fitment/compare": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Compare two setups",
					"description": "Compare a candidate against a baseline: diameter deltas, lateral moves, speedometer error, clearance verdicts, and optional scrub-radius estimates.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": jsonContent(map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"baseline":  fieldsSchema,
								"candidate": fieldsSchema,
								"clearances": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"inner_mm": map[string]interface{}{"type": "number", "nullable": true},
										"outer_mm": map[string]interface{}{"type": "number", "nullable": true},
									},
								},
								"thresholds": map[string]interface{}{
									"type":     "object",
									"nullable": true,
									"properties": map[string]interface{}{
										"inner_min_mm": map[string]string{"type": "number"},
										"outer_min_mm": map[string]string{"type": "number"},
									},
								},
								"kingpin_inclination_deg": map[string]interface{}{"type": "number", "nullable": true},
								"hub_offset_mm":           map[string]interface{}{"type": "number", "nullable": true},
							},
						}),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Comparison report; result is null when either setup lacks tire geometry",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"baseline":  setupSchema,
									"candidate": setupSchema,
									"result":    comparisonSchema,
									"verdicts":  verdictsSchema,
									"thresholds": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"inner_min_mm": map[string]string{"type": "number"},
											"outer_min_mm": map[string]string{"type": "number"},
										},
									},
									"scrub": map[string]interface{}{
										"type":     "object",
										"nullable": true,
										"properties": map[string]interface{}{
											"baseline_mm":  map[string]interface{}{"type": "number", "nullable": true},
											"candidate_mm": map[string]interface{}{"type": "number", "nullable": true},
											"delta_mm":     map[string]interface{}{"type": "number", "nullable": true},
										},
									},
								},
							}),
						},
						"400": map[string]interface{}{
							"description": "Invalid JSON body",
							"content":     jsonContent(errorSchema),
						},
						"422": map[string]interface{}{
							"description": "A setup's tire cannot seat on its declared wheel",
							"content":     jsonContent(errorSchema),
						},
					},
				},
			},
			"/api/fitment/scrub": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Estimate scrub radius",
					"description": "Single-plane scrub-radius estimate from kingpin inclination and hub offset. Returns null when inputs are incomplete.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": jsonContent(map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"setup":                   fieldsSchema,
								"kingpin_inclination_deg": map[string]interface{}{"type": "number", "nullable": true},
								"hub_offset_mm":           map[string]interface{}{"type": "number", "nullable": true},
							},
						}),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Scrub estimate",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"scrub_radius_mm": map[string]interface{}{"type": "number", "nullable": true},
								},
							}),
						},
						"400": map[string]interface{}{
							"description": "Invalid JSON body",
							"content":     jsonContent(errorSchema),
						},
					},
				},
			},
			"/api/sessions": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Save a session",
					"description": "Persist a named session with its raw setup fields. Derived geometry is never stored; the response reflects what a later load recomputes.",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": jsonContent(map[string]interface{}{
							"type": "object",
							"required": []string{
								"name",
							},
							"properties": map[string]interface{}{
								"name":               map[string]string{"type": "string"},
								"unit_mode":          map[string]interface{}{"type": "string", "enum": []string{"metric", "imperial"}},
								"selected_token":     map[string]string{"type": "string"},
								"inner_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
								"outer_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
								"baseline":           fieldsSchema,
								"candidates": map[string]interface{}{
									"type":  "array",
									"items": fieldsSchema,
								},
							},
						}),
					},
					"responses": map[string]interface{}{
						"201": map[string]interface{}{
							"description": "Saved session with recomputed state",
							"content":     jsonContent(sessionViewSchema),
						},
						"400": map[string]interface{}{
							"description": "Validation error",
							"content":     jsonContent(errorSchema),
						},
					},
				},
				"get": map[string]interface{}{
					"summary":     "List sessions",
					"description": "Retrieve session headers, newest first",
					"parameters": []map[string]interface{}{
						{
							"name":        "page",
							"in":          "query",
							"description": "Page number (default: 1)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
						{
							"name":        "limit",
							"in":          "query",
							"description": "Records per page (default: 20)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 20},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"data": map[string]interface{}{
										"type": "array",
										"items": map[string]interface{}{
											"type": "object",
											"properties": map[string]interface{}{
												"id":                 map[string]string{"type": "string", "format": "uuid"},
												"name":               map[string]string{"type": "string"},
												"unit_mode":          map[string]string{"type": "string"},
												"selected_token":     map[string]string{"type": "string"},
												"inner_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
												"outer_clearance_mm": map[string]interface{}{"type": "number", "nullable": true},
												"created_at":         map[string]string{"type": "string", "format": "date-time"},
												"updated_at":         map[string]string{"type": "string", "format": "date-time"},
											},
										},
									},
									"total":       map[string]string{"type": "integer"},
									"page":        map[string]string{"type": "integer"},
									"limit":       map[string]string{"type": "integer"},
									"total_pages": map[string]string{"type": "integer"},
								},
							}),
						},
					},
				},
			},
			"/api/sessions/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get a session",
					"description": "Load a session and recompute all derived state from its stored raw fields",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string", "format": "uuid"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Session with recomputed state",
							"content":     jsonContent(sessionViewSchema),
						},
						"404": map[string]interface{}{
							"description": "Session not found",
							"content":     jsonContent(errorSchema),
						},
					},
				},
				"delete": map[string]interface{}{
					"summary":     "Delete a session",
					"description": "Remove a session and its setups",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string", "format": "uuid"},
						},
					},
					"responses": map[string]interface{}{
						"204": map[string]interface{}{
							"description": "Session deleted",
						},
						"404": map[string]interface{}{
							"description": "Session not found",
							"content":     jsonContent(errorSchema),
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its database are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": jsonContent(map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"status": map[string]string{"type": "string"},
								},
							}),
						},
						"503": map[string]interface{}{
							"description": "API is degraded",
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
