package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword 生成 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验明文密码与存储的哈希是否匹配，不匹配时返回 bcrypt.ErrMismatchedHashAndPassword
func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
