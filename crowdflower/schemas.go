// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

// JobSchema declares the fields of a job.
var JobSchema = NewSchema("job").
	ReadOnly(
		"completed",
		"completed_at",
		"copied_from",
		"created_at",
		"crowd_costs",
		"design_verified",
		"fields",
		"gold",
		"golds_count",
		"id",
		"judgments_count",
		"order_approved",
		"units_count",
		"updated_at",
	).
	ReadWrite(
		"alias",
		"auto_order",
		"auto_order_threshold",
		"auto_order_timeout",
		"cml",
		"confidence_fields",
		"css",
		"custom_key",
		"excluded_countries",
		"gold_per_assignment",
		"included_countries",
		"instructions",
		"js",
		"judgments_per_unit",
		"language",
		"max_judgments_per_contributor",
		"max_judgments_per_ip",
		"max_judgments_per_unit",
		"min_unit_confidence",
		"minimum_account_age_seconds",
		"options",
		"pages_per_assignment",
		"payment_cents",
		"problem",
		"project_number",
		"require_worker_login",
		"send_judgments_webhook",
		"state",
		"support_email",
		"title",
		"units_per_assignment",
		"units_remain_finalized",
		"variable_judgments_mode",
		"webhook_uri",
	).
	WriteOnly(
		"secret",
	)

// JobRequiredFields must be non-empty before a job update is sent.
// The service accepts an update without them but silently drops it.
var JobRequiredFields = []string{"title", "instructions", "cml"}

// UnitSchema declares the fields of a unit.
var UnitSchema = NewSchema("unit").
	ReadOnly(
		"created_at",
		"id",
		"judgments_count",
		"results",
		"updated_at",
	).
	ReadWrite(
		"agreement",
		"data",
		"difficulty",
		"job_id",
		"missed_count",
		"state",
	)

// JudgmentSchema declares the fields of a single judgment.
var JudgmentSchema = NewSchema("judgment").
	ReadOnly(
		"started_at",
		"created_at",
		"job_id",
		"contributor_id",
		"unit_id",
		"judgment",
		"external_type",
		"rejected",
		"ip",
		"id",
		"data",
		"unit_data",
		"trust",
		"worker_id",
		"worker_trust",
	).
	ReadWrite(
		"webhook_sent_at",
		"reviewed",
		"missed",
		"tainted",
		"country",
		"region",
		"city",
		"golden",
		"unit_state",
	)

// JudgmentAggregateSchema declares the fields of a judgment aggregate.
// The service reports its own bookkeeping under underscore-prefixed
// keys, next to one entry per job field.
var JudgmentAggregateSchema = NewSchema("judgment").
	Declare(Field{Name: "agreement", Key: "_agreement", Mode: ReadOnly}).
	Declare(Field{Name: "ids", Key: "_ids", Mode: ReadOnly}).
	Declare(Field{Name: "state", Key: "_state", Mode: ReadOnly}).
	Declare(Field{Name: "updated_at", Key: "_updated_at", Mode: ReadOnly}).
	Declare(Field{Name: "unit_id", Key: "_unit_id", Mode: ReadOnly}).
	Declare(Field{Name: "judgments", Key: "_judgments", Mode: ReadOnly}).
	Declare(Field{Name: "golden", Key: "_golden", Mode: ReadOnly})

// OrderSchema declares the fields of an order.
var OrderSchema = NewSchema("order").
	ReadOnly(
		"created_at",
		"id",
		"meta",
		"type",
		"updated_at",
		"user_id",
	).
	ReadWrite(
		"job_id",
	)

// WorkerSchema declares the fields of a worker (contributor).
var WorkerSchema = NewSchema("worker").
	ReadOnly(
		"id",
	)
