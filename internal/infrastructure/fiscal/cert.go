// Carga del certificado de firma desde par PEM.

package fiscal

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// LoadFromPEM carga certificado y llave desde archivos PEM (certificado y
// llave por separado, o combinados en un solo archivo).
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if certPath == "" {
		return tls.Certificate{}, nil
	}
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("cargar PEM: %w", err)
	}
	return cert, nil
}

// certDigestAndIssuerSerial devuelve el digest SHA-256 del certificado
// (Base64), el issuer y el serial en hex para el bloque XAdES.
func certDigestAndIssuerSerial(cert *x509.Certificate) (digestB64 string, issuerName string, serialHex string) {
	h := sha256.Sum256(cert.Raw)
	digestB64 = base64.StdEncoding.EncodeToString(h[:])
	issuerName = cert.Issuer.String()
	serialHex = cert.SerialNumber.Text(16)
	return digestB64, issuerName, serialHex
}
