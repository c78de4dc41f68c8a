package jwtmw

// EnvKeyJWTSecret is the environment variable holding the token signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"
