package sql

func migrateToV1(db *DB) error {
	return migrate(db, 1,
		"v1/create_applications",
		"v1/create_users",
		"v1/create_attributes",
		"v1/create_servers",
		"v1/create_server_attributes",
		"v1/create_graph_collections",
		"v1/create_graph_templates",
		"v1/create_graph_variations",
	)
}
