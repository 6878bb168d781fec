package cmd

// version is stamped into the API metadata and the version subcommand.
const version = "1.0.0"
