// Package postgres implements the PostgreSQL persistence layer for the
// registrar engine.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE COURSE DEFINITIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create course definition reference table
-- Version: 001

-- Static course weight/credit reference data, loaded from the registrar
-- course catalog export. The engine treats this table as read-only.
CREATE TABLE IF NOT EXISTS course_definitions (
    code VARCHAR(30) PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    is_core BOOLEAN NOT NULL DEFAULT FALSE,
    weight DECIMAL(3,2) NOT NULL DEFAULT 0.00,
    annual_credit DECIMAL(4,2) NOT NULL DEFAULT 0.00,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_weight CHECK (weight >= 0 AND weight <= 2),
    CONSTRAINT valid_credit CHECK (annual_credit >= 0)
);

CREATE INDEX IF NOT EXISTS idx_course_definitions_core ON course_definitions(is_core) WHERE is_core;
`

const migration001Down = `
DROP TABLE IF EXISTS course_definitions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE GRADE RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create native and transfer grade record tables
-- Version: 002

-- One row per student per course per semester, as exported from the SIS.
-- Rows arrive schema-validated from the upstream loader; the engine only
-- reads them.
CREATE TABLE IF NOT EXISTS grade_records (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL,
    graduation_year INTEGER NOT NULL,
    academic_year VARCHAR(12) NOT NULL,
    semester SMALLINT NOT NULL,
    course_code VARCHAR(30) NOT NULL,
    course_title VARCHAR(200) NOT NULL,
    raw_grade VARCHAR(20) NOT NULL DEFAULT '',
    explicit_credit DECIMAL(4,2) NOT NULL DEFAULT 0.00,
    honors_detected BOOLEAN NOT NULL DEFAULT FALSE,
    loaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_semester CHECK (semester IN (1, 2)),
    CONSTRAINT valid_explicit_credit CHECK (explicit_credit >= 0)
);

CREATE INDEX IF NOT EXISTS idx_grade_records_student ON grade_records(student_id);
CREATE INDEX IF NOT EXISTS idx_grade_records_cohort ON grade_records(graduation_year);
CREATE INDEX IF NOT EXISTS idx_grade_records_course ON grade_records(course_code);

-- External credits from previous schools. Transfer rows carry no
-- semester number and always an explicit attempted-credit value.
CREATE TABLE IF NOT EXISTS transfer_records (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL,
    graduation_year INTEGER NOT NULL,
    academic_year VARCHAR(12) NOT NULL,
    course_code VARCHAR(30) NOT NULL DEFAULT '',
    course_title VARCHAR(200) NOT NULL,
    raw_grade VARCHAR(20) NOT NULL DEFAULT '',
    credits_attempted DECIMAL(4,2) NOT NULL DEFAULT 0.00,
    source_school VARCHAR(200) NOT NULL DEFAULT '',
    loaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_credits_attempted CHECK (credits_attempted >= 0)
);

CREATE INDEX IF NOT EXISTS idx_transfer_records_student ON transfer_records(student_id);
CREATE INDEX IF NOT EXISTS idx_transfer_records_cohort ON transfer_records(graduation_year);
`

const migration002Down = `
DROP TABLE IF EXISTS transfer_records;
DROP TABLE IF EXISTS grade_records;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE STANDINGS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create computed standings table
-- Version: 003

-- Derived output, one row per student, replaced wholesale by each batch
-- run. Nested structures (per-term GPA maps, award lists, layout
-- metrics) are stored as JSONB because they are read back as documents,
-- never queried field-by-field.
CREATE TABLE IF NOT EXISTS standings (
    student_id BIGINT PRIMARY KEY,
    graduation_year INTEGER NOT NULL,
    weighted_gpa DECIMAL(6,4) NOT NULL DEFAULT 0,
    unweighted_gpa DECIMAL(6,4) NOT NULL DEFAULT 0,
    core_weighted_gpa DECIMAL(6,4) NOT NULL DEFAULT 0,
    core_unweighted_gpa DECIMAL(6,4) NOT NULL DEFAULT 0,
    credits_earned DECIMAL(6,2) NOT NULL DEFAULT 0,
    credits_attempted DECIMAL(6,2) NOT NULL DEFAULT 0,
    class_rank INTEGER NOT NULL DEFAULT 0,
    cohort_size INTEGER NOT NULL DEFAULT 0,
    percentile DECIMAL(6,3) NOT NULL DEFAULT 0,
    decile VARCHAR(30) NOT NULL DEFAULT '',
    is_part_time BOOLEAN NOT NULL DEFAULT FALSE,
    diploma_designation VARCHAR(60) NOT NULL DEFAULT '',
    gpa_detail JSONB NOT NULL DEFAULT '{}'::jsonb,
    awards JSONB NOT NULL DEFAULT '[]'::jsonb,
    layout_metrics JSONB NOT NULL DEFAULT '{}'::jsonb,
    run_id UUID,
    computed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_rank CHECK (class_rank >= 0),
    CONSTRAINT valid_cohort_size CHECK (cohort_size >= 0)
);

CREATE INDEX IF NOT EXISTS idx_standings_cohort ON standings(graduation_year);
CREATE INDEX IF NOT EXISTS idx_standings_cohort_rank ON standings(graduation_year, class_rank) WHERE class_rank > 0;
CREATE INDEX IF NOT EXISTS idx_standings_run ON standings(run_id);
`

const migration003Down = `
DROP TABLE IF EXISTS standings;
`
