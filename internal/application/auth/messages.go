package auth

import "errors"

// messages textos mostrados al usuario por código de error.
var messages = map[string]string{
	CodeInvalidEmail:      "Adresa de email nu este validă",
	CodeEmailAlreadyInUse: "Există deja un cont cu acest email",
	CodeWeakPassword:      "Parola trebuie să aibă cel puțin 6 caractere",
	CodeUserNotFound:      "Nu există niciun cont cu acest email",
	CodeWrongPassword:     "Email sau parolă greșită",
	CodeInvalidCredential: "Email sau parolă greșită",
	CodeTooManyRequests:   "Prea multe încercări. Încercați din nou mai târziu",
	CodeNetworkFailed:     "Eroare de rețea. Verificați conexiunea la internet",
	CodeSessionExpired:    "Sesiunea a expirat. Autentificați-vă din nou",
}

// genericPrefix prefijo del mensaje para códigos desconocidos; le sigue el texto del error.
const genericPrefix = "A apărut o eroare: "

// Message traduce err a un mensaje en rumano. Códigos desconocidos y errores sin código
// devuelven el mensaje genérico con el texto original.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if msg, ok := messages[pe.Code]; ok {
			return msg
		}
	}
	return genericPrefix + err.Error()
}
