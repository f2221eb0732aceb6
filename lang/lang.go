// Localized message templates. Lookups fall back to English when a language
// or key is missing; placeholders use {name} syntax.
package lang

import (
	"strings"
)

const defaultLanguage = "en"

// Get returns the template for key in the given language.
func Get(language, key string) string {
	table, ok := tables[language]
	if !ok {
		table = tables[defaultLanguage]
	}
	msg, ok := table[key]
	if !ok {
		msg = tables[defaultLanguage][key]
	}
	return msg
}

// GetReplaced resolves the template and substitutes {placeholder} pairs.
// Pairs are ("userid", "123", "username", "ada", ...).
func GetReplaced(language, key string, pairs ...string) string {
	msg := Get(language, key)
	if len(pairs) == 0 {
		return msg
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(msg)
}

var tables = map[string]map[string]string{
	"en": {
		"adaShieldMessage":                 "<a href=\"tg://user?id={userid}\">{username}</a> banned. Reason: AdaShield.",
		"casMessage":                       "<a href=\"tg://user?id={userid}\">{username}</a> banned. Reason: CAS.",
		"adaShieldStatus":                  "AdaShield is {status}.",
		"textEnabled":                      "enabled",
		"textDisabled":                     "disabled",
		"greetingsMessage":                 "Welcome, <a href=\"tg://user?id={userid}\">{username}</a>!",
		"greetingsStatus":                  "Greetings are {status}.",
		"warningNoneMessage":               "<a href=\"tg://user?id={userid}\">{username}</a> has no warnings.",
		"warningSingleMessage":             "<a href=\"tg://user?id={userid}\">{username}</a> has {warnings} warning:\n",
		"warningPluralMessage":             "<a href=\"tg://user?id={userid}\">{username}</a> has {warnings} warnings:\n",
		"warningBanMessage":                "<a href=\"tg://user?id={userid}\">{username}</a> reached {warnings} warnings and has been banned.\n",
		"selfWarnMessage":                  "You cannot warn me.",
		"adminWarnMessage":                 "Administrators cannot be warned.",
		"warnBlockedTerm":                  "Use of a blocked term.",
		"reasonUnknown":                    "not specified",
		"bannedMessage":                    "<a href=\"tg://user?id={userid}\">{username}</a> banned. Reason: {reason}.",
		"banErrorMessage":                  "I could not ban this user.",
		"lastWarningRemovalButton":         "Remove last warning",
		"warningsRemovalButton":            "Remove all warnings",
		"warningRemovedMessage":            "Warning removed.",
		"federationDetails":                "Federation: {federation}\nHash: <code>{hash}</code>",
		"federationCommandOnlyGroupError":  "Federation commands are only available in groups.",
		"federationJoinOnlyAdminError":     "Only administrators can manage the chat federation.",
		"federationJoinNoHashError":        "Please provide the federation hash.",
		"federationInvalidHashError":       "Invalid federation hash.",
		"federationJoinHasFederationError": "This chat already belongs to a federation. Leave it first.",
		"federationJoinSuccess":            "This chat joined the federation {federation}.",
		"federationJoinError":              "An error occurred while joining the federation.",
		"federationLeaveNoFederationError": "This chat does not belong to a federation.",
		"federationLeaveSuccess":           "This chat left the federation.",
		"federationLeaveError":             "An error occurred while leaving the federation.",
		"blockedTermsList":                 "Blocked terms in this chat:\n{terms}",
		"blockedTermsEmpty":                "This chat has no blocked terms.",
		"blockedTermAdded":                 "Term blocked with action <code>{action}</code>.",
		"blockedTermRemoved":               "Term unblocked.",
		"blockedTermUsage":                 "Usage: /blockedterms add <term> <mute|ban|warn> or /blockedterms del <term>.",
		"userLink":                         "<a href=\"tg://user?id={userid}\">{username}</a>",
	},
	"pt": {
		"adaShieldMessage":                 "<a href=\"tg://user?id={userid}\">{username}</a> banido. Motivo: AdaShield.",
		"casMessage":                       "<a href=\"tg://user?id={userid}\">{username}</a> banido. Motivo: CAS.",
		"adaShieldStatus":                  "O AdaShield está {status}.",
		"textEnabled":                      "ativado",
		"textDisabled":                     "desativado",
		"greetingsMessage":                 "Bem-vindo, <a href=\"tg://user?id={userid}\">{username}</a>!",
		"greetingsStatus":                  "As boas-vindas estão {status}.",
		"warningNoneMessage":               "<a href=\"tg://user?id={userid}\">{username}</a> não tem advertências.",
		"warningSingleMessage":             "<a href=\"tg://user?id={userid}\">{username}</a> tem {warnings} advertência:\n",
		"warningPluralMessage":             "<a href=\"tg://user?id={userid}\">{username}</a> tem {warnings} advertências:\n",
		"warningBanMessage":                "<a href=\"tg://user?id={userid}\">{username}</a> atingiu {warnings} advertências e foi banido.\n",
		"selfWarnMessage":                  "Você não pode me advertir.",
		"adminWarnMessage":                 "Administradores não podem ser advertidos.",
		"warnBlockedTerm":                  "Uso de um termo bloqueado.",
		"reasonUnknown":                    "não especificado",
		"bannedMessage":                    "<a href=\"tg://user?id={userid}\">{username}</a> banido. Motivo: {reason}.",
		"banErrorMessage":                  "Não consegui banir este usuário.",
		"lastWarningRemovalButton":         "Remover última advertência",
		"warningsRemovalButton":            "Remover todas as advertências",
		"warningRemovedMessage":            "Advertência removida.",
		"federationDetails":                "Federação: {federation}\nHash: <code>{hash}</code>",
		"federationCommandOnlyGroupError":  "Comandos de federação só estão disponíveis em grupos.",
		"federationJoinOnlyAdminError":     "Apenas administradores podem gerenciar a federação do chat.",
		"federationJoinNoHashError":        "Informe o hash da federação.",
		"federationInvalidHashError":       "Hash de federação inválido.",
		"federationJoinHasFederationError": "Este chat já pertence a uma federação. Saia dela primeiro.",
		"federationJoinSuccess":            "Este chat entrou na federação {federation}.",
		"federationJoinError":              "Ocorreu um erro ao entrar na federação.",
		"federationLeaveNoFederationError": "Este chat não pertence a uma federação.",
		"federationLeaveSuccess":           "Este chat saiu da federação.",
		"federationLeaveError":             "Ocorreu um erro ao sair da federação.",
		"blockedTermsList":                 "Termos bloqueados neste chat:\n{terms}",
		"blockedTermsEmpty":                "Este chat não tem termos bloqueados.",
		"blockedTermAdded":                 "Termo bloqueado com a ação <code>{action}</code>.",
		"blockedTermRemoved":               "Termo desbloqueado.",
		"blockedTermUsage":                 "Uso: /blockedterms add <termo> <mute|ban|warn> ou /blockedterms del <termo>.",
		"userLink":                         "<a href=\"tg://user?id={userid}\">{username}</a>",
	},
}
