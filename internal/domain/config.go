package domain

// KeyPrefix namespaces every key assetdex writes to the key-value store.
const KeyPrefix = "assetdex:"
