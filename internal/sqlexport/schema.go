package sqlexport

// Schema DDL for the exported tables.
const (
	createUsers = `CREATE TABLE users (
    username TEXT NOT NULL,
    password TEXT NOT NULL,
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL,
    is_admin INTEGER NOT NULL,
    is_approved INTEGER NOT NULL,
    position INTEGER PRIMARY KEY
);`

	createItemTypes = `CREATE TABLE item_types (
    name TEXT NOT NULL,
    position INTEGER PRIMARY KEY
);`

	createItemTypeAttributes = `CREATE TABLE item_type_attributes (
    item_type TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    name TEXT NOT NULL
);`

	createItems = `CREATE TABLE items (
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    address TEXT NOT NULL,
    contact_phone TEXT NOT NULL,
    contact_email TEXT NOT NULL,
    item_type TEXT NOT NULL,
    user TEXT NOT NULL,
    position INTEGER PRIMARY KEY
);`

	createItemExtraAttributes = `CREATE TABLE item_extra_attributes (
    item_id TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL
);`
)

// Index DDL for the common lookups.
const (
	idxUsersUsername    = `CREATE INDEX idx_users_username ON users(username);`
	idxItemTypesName    = `CREATE INDEX idx_item_types_name ON item_types(name);`
	idxItemsID          = `CREATE INDEX idx_items_id ON items(id);`
	idxItemsItemType    = `CREATE INDEX idx_items_item_type ON items(item_type);`
	idxItemsUser        = `CREATE INDEX idx_items_user ON items(user);`
	idxExtraAttrsByItem = `CREATE INDEX idx_item_extra_attributes_item ON item_extra_attributes(item_id);`
	idxTypeAttrsByType  = `CREATE INDEX idx_item_type_attributes_type ON item_type_attributes(item_type);`
)

// schemaDDL lists every statement in creation order.
var schemaDDL = []string{
	createUsers,
	createItemTypes,
	createItemTypeAttributes,
	createItems,
	createItemExtraAttributes,
	idxUsersUsername,
	idxItemTypesName,
	idxItemsID,
	idxItemsItemType,
	idxItemsUser,
	idxExtraAttrsByItem,
	idxTypeAttrsByType,
}
