package flowcore

// Version is the library release tag.
const Version = "0.3.0"
