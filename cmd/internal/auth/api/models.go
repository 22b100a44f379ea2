package authapi

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type deleteRequest struct {
	IdentityToken string `json:"identity_token"`
}

type signUpResponse struct {
	Status string `json:"status"`
}

type signInResponse struct {
	IdentityToken string `json:"identity_token"`
}
