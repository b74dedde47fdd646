package configs

type Secrets struct {
	SessionSecret   string `yaml:"session_secret"`
	EcdsaPrivateKey string `yaml:"ecdsa_private_key"`
	EcdsaPublicKey  string `yaml:"ecdsa_public_key"`
}
