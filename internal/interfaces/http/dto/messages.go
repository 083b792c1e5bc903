package dto

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when the client sends no usable Accept-Language
var DefaultLanguage = language.BrazilianPortuguese

var supportedLanguages = []language.Tag{language.BrazilianPortuguese, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

var messages = catalog.NewBuilder()

var ptBRMessages = map[string]string{
	ErrCodeInternal:        "Ocorreu um erro inesperado",
	ErrCodeUnavailable:     "Falha temporária, tente a operação novamente",
	ErrCodeBadRequest:      "Requisição inválida",
	ErrCodeInvalidJSON:     "Corpo da requisição não é um JSON válido",
	ErrCodeInvalidID:       "Identificador inválido",
	ErrCodeUnauthorized:    "Autenticação necessária",
	ErrCodeTokenExpired:    "Token expirado",
	ErrCodeTokenInvalid:    "Token inválido",
	ErrCodeForbidden:       "Permissão insuficiente",
	ErrCodeNotFound:        "Recurso não encontrado",
	ErrCodeRequestTooLarge: "Corpo da requisição excede o tamanho máximo",

	"INVALID_INPUT":           "Dados inválidos",
	"TENANT_REQUIRED":         "Empresa não identificada",
	"INVALID_TANK_NAME":       "Nome do tanque é obrigatório",
	"INVALID_CAPACITY":        "Capacidade do tanque não pode ser negativa",
	"INVALID_TANK_STATUS":     "Status de tanque inválido",
	"INVALID_TANK":            "Tanque é obrigatório",
	"INVALID_SPECIES":         "Espécie é obrigatória",
	"INVALID_QUANTITY":        "Quantidade deve ser maior que zero",
	"INVALID_WEIGHT":          "Peso médio deve ser maior que zero",
	"INVALID_DATE":            "Data é obrigatória",
	"INVALID_INVOICE":         "Número da nota fiscal é obrigatório",
	"INVALID_SUPPLIER":        "Fornecedor é obrigatório",
	"INVALID_TOTAL_VALUE":     "Valor total não pode ser negativo",
	"INVALID_LOT_STATUS":      "Status de lote inválido",
	"INVALID_TERMINAL_STATUS": "Status de encerramento inválido",
	"INVALID_CONFLICT_POLICY": "Política de conflito inválida",
	"INVALID_SAMPLE_SIZE":     "Tamanho da amostra deve ser maior que zero",
	"INVALID_RATION_TYPE":     "Tipo de ração é obrigatório",
	"INVALID_COST":            "Custo não pode ser negativo",
	"SALE_TOO_SMALL":          "Quantidade vendida corresponde a menos de um peixe",
	"SAME_TANK_TRANSFER":      "Tanque de destino igual ao tanque de origem",
	"TRANSFER_EXCEEDS_STOCK":  "Quantidade transferida excede o estoque do lote",
	"NOT_FOUND":               "Recurso não encontrado",
	"TANK_NOT_FOUND":          "Tanque não encontrado",
	"LOT_NOT_FOUND":           "Lote não encontrado",
	"INTAKE_NOT_FOUND":        "Entrada não encontrada",
	"TANK_OCCUPIED":           "Tanque já possui um lote ativo",
	"LOT_NOT_ACTIVE":          "Lote não está ativo",
	"INSUFFICIENT_STOCK":      "Estoque insuficiente no lote",
	"DUPLICATE_KEY":           "Registro duplicado",
	"RECORD_IN_USE":           "Registro em uso por outros dados",
	"ALREADY_EXISTS":          "Registro já existe",
	"CONCURRENCY_CONFLICT":    "Registro alterado por outra operação",
	"INVALID_STATE":           "Operação não permitida no estado atual",
}

var enMessages = map[string]string{
	ErrCodeInternal:        "An unexpected error occurred",
	ErrCodeUnavailable:     "Temporary failure, retry the operation",
	ErrCodeBadRequest:      "Bad request",
	ErrCodeInvalidJSON:     "Request body is not valid JSON",
	ErrCodeInvalidID:       "Invalid identifier",
	ErrCodeUnauthorized:    "Authentication required",
	ErrCodeTokenExpired:    "Token has expired",
	ErrCodeTokenInvalid:    "Invalid token",
	ErrCodeForbidden:       "Insufficient permission",
	ErrCodeNotFound:        "Resource not found",
	ErrCodeRequestTooLarge: "Request body exceeds maximum allowed size",
}

func init() {
	for tag, table := range map[language.Tag]map[string]string{
		language.BrazilianPortuguese: ptBRMessages,
		language.English:             enMessages,
	} {
		for code, msg := range table {
			if err := messages.SetString(tag, code, msg); err != nil {
				panic(fmt.Sprintf("dto: register message %s/%s: %v", tag, code, err))
			}
		}
	}
}

// MatchLanguage picks the supported language that best fits an Accept-Language header
func MatchLanguage(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return supportedLanguages[idx]
}

// Localize returns the catalog message for code in tag, or fallback when none is registered
func Localize(tag language.Tag, code, fallback string) string {
	p := message.NewPrinter(tag, message.Catalog(messages))
	if msg := p.Sprintf(code); msg != code {
		return msg
	}
	return fallback
}
