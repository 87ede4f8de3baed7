package walver

// Version is reported in the User-Agent header.
const Version = "0.3.0"
