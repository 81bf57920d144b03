package ir

// IRVersion is the IR document schema version.
const IRVersion = "1"
