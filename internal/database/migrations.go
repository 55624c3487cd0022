package database

// SQL migrations for the rentfolio database.
// All migrations use IF NOT EXISTS to be idempotent.

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    is_admin INTEGER DEFAULT 0,
    must_change_password INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationProperties = `
CREATE TABLE IF NOT EXISTS properties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'active',
    address_line TEXT NOT NULL,
    city TEXT,
    state TEXT,
    zip_code TEXT,
    property_type TEXT,
    purchase_price REAL DEFAULT 0,
    closing_costs REAL DEFAULT 0,
    purchase_date DATE,
    placed_in_service_date DATE,
    current_value REAL DEFAULT 0,
    land_value REAL,
    monthly_rent REAL DEFAULT 0,
    other_monthly_income REAL DEFAULT 0,
    property_tax_annual REAL DEFAULT 0,
    insurance_annual REAL DEFAULT 0,
    hoa_monthly REAL DEFAULT 0,
    management_rate REAL,
    vacancy_rate REAL,
    maintenance_rate REAL,
    capex_rate REAL,
    is_self_managed INTEGER DEFAULT 0,
    management_company TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, address_line)
);
`

const migrationLoans = `
CREATE TABLE IF NOT EXISTS loans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    lender_name TEXT NOT NULL,
    loan_type TEXT NOT NULL DEFAULT 'conventional',
    status TEXT NOT NULL DEFAULT 'active',
    is_primary INTEGER DEFAULT 0,
    current_balance REAL DEFAULT 0,
    original_loan_amount REAL DEFAULT 0,
    interest_rate REAL DEFAULT 0,
    term_months INTEGER DEFAULT 0,
    monthly_principal_interest REAL DEFAULT 0,
    monthly_escrow REAL DEFAULT 0,
    total_monthly_payment REAL DEFAULT 0,
    start_date DATE,
    maturity_date DATE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationTransactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    transaction_date DATE NOT NULL,
    amount REAL NOT NULL,
    category TEXT,
    counterparty TEXT,
    is_tax_deductible INTEGER DEFAULT 0,
    is_recurring INTEGER DEFAULT 0,
    is_excluded INTEGER DEFAULT 0,
    notes TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// migrationPreferences backs the user-preference service (per-user
// key-value store for UI state like dismissed learning-hub cards).
const migrationPreferences = `
CREATE TABLE IF NOT EXISTS preferences (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, key)
);
`

// migrationMetricSnapshots stores the daily portfolio metrics captured
// by the snapshot scheduler.
const migrationMetricSnapshots = `
CREATE TABLE IF NOT EXISTS metric_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    snapshot_date DATE NOT NULL,
    property_count INTEGER DEFAULT 0,
    total_value REAL DEFAULT 0,
    gross_income REAL DEFAULT 0,
    operating_expense REAL DEFAULT 0,
    net_operating_income REAL DEFAULT 0,
    debt_service REAL DEFAULT 0,
    cash_flow REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, snapshot_date)
);
`

// migrationAuditLog stores audit entries for tracking user and admin actions.
const migrationAuditLog = `
CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    actor_id INTEGER NOT NULL,
    action TEXT NOT NULL,
    entity_type TEXT NOT NULL,
    entity_id INTEGER,
    new_values TEXT,
    ip_address TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const migrationIndexes = `
CREATE INDEX IF NOT EXISTS idx_properties_user ON properties(user_id);
CREATE INDEX IF NOT EXISTS idx_loans_property ON loans(property_id);
CREATE INDEX IF NOT EXISTS idx_transactions_property ON transactions(property_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_user ON metric_snapshots(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_user ON audit_log(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
`

// migrationAddShareToken adds the share_token column to properties.
const migrationAddShareToken = `
ALTER TABLE properties ADD COLUMN share_token TEXT;
`

// migrationAddInitialImprovements adds the initial_improvements column
// to properties (feeds the cost basis calculation).
const migrationAddInitialImprovements = `
ALTER TABLE properties ADD COLUMN initial_improvements REAL DEFAULT 0;
`
