package database

// Schema bootstraps the ledger-state tables the dispatcher's SQL
// templates assume exist (spec §6). The writer side that populates
// these tables (consensus, block commit) is out of this repo's scope;
// this schema exists so tests and local tooling can stand up a
// throwaway database with the right shape.
const Schema = `
-- account: one row per ledger account.
CREATE TABLE IF NOT EXISTS account (
    account_id TEXT PRIMARY KEY,
    domain_id  TEXT NOT NULL,
    quorum     INTEGER NOT NULL,
    data       JSONB NOT NULL DEFAULT '{}'::jsonb
);

-- asset: one row per registered asset.
CREATE TABLE IF NOT EXISTS asset (
    asset_id  TEXT PRIMARY KEY,
    domain_id TEXT NOT NULL,
    precision INTEGER NOT NULL
);

-- account_has_asset: an account's balance of a given asset.
CREATE TABLE IF NOT EXISTS account_has_asset (
    account_id TEXT NOT NULL REFERENCES account(account_id),
    asset_id   TEXT NOT NULL REFERENCES asset(asset_id),
    amount     NUMERIC NOT NULL,
    PRIMARY KEY (account_id, asset_id)
);

-- role: closed set of role identifiers.
CREATE TABLE IF NOT EXISTS role (
    role_id TEXT PRIMARY KEY
);

-- role_has_permissions: the bitstring granted by holding a role.
CREATE TABLE IF NOT EXISTS role_has_permissions (
    role_id    TEXT NOT NULL REFERENCES role(role_id),
    permission BIT VARYING NOT NULL,
    PRIMARY KEY (role_id)
);

-- account_has_roles: an account's assigned roles.
CREATE TABLE IF NOT EXISTS account_has_roles (
    account_id TEXT NOT NULL REFERENCES account(account_id),
    role_id    TEXT NOT NULL REFERENCES role(role_id),
    PRIMARY KEY (account_id, role_id)
);

-- account_has_signatory: an account's authorized public keys.
CREATE TABLE IF NOT EXISTS account_has_signatory (
    account_id TEXT NOT NULL REFERENCES account(account_id),
    public_key TEXT NOT NULL,
    PRIMARY KEY (account_id, public_key)
);

-- peer: network peers known to the ledger, keyed by public key.
CREATE TABLE IF NOT EXISTS peer (
    public_key TEXT PRIMARY KEY,
    address    TEXT NOT NULL
);

-- position_by_hash: maps a transaction hash to its committed position.
CREATE TABLE IF NOT EXISTS position_by_hash (
    hash   TEXT PRIMARY KEY,
    height BIGINT NOT NULL,
    index  BIGINT NOT NULL
);

-- tx_position_by_creator: every transaction position indexed by creator.
CREATE TABLE IF NOT EXISTS tx_position_by_creator (
    creator_id TEXT NOT NULL,
    height     BIGINT NOT NULL,
    index      BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tx_position_by_creator ON tx_position_by_creator (creator_id, height, index);

-- position_by_account_asset: transaction positions touching an
-- (account, asset) pair.
CREATE TABLE IF NOT EXISTS position_by_account_asset (
    account_id TEXT NOT NULL,
    asset_id   TEXT NOT NULL,
    height     BIGINT NOT NULL,
    index      BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_position_by_account_asset ON position_by_account_asset (account_id, asset_id, height, index);

-- setting: peripheral key/value store consulted by the typed-settings loader.
CREATE TABLE IF NOT EXISTS setting (
    setting_key   TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL
);
`
