package payment

import "strings"

var InstructionMap = map[string][]string{
	MethodCreditCard: {
		"Enter your card details (card number, expiry date, CVV)",
		"Make sure the card details are correct",
		"Complete the 3D Secure verification sent by your bank",
		"Wait until the payment of {{amount}} for order {{order_number}} is confirmed",
	},

	MethodBankTransfer: {
		"Open your mobile banking app or visit an ATM",
		"Transfer {{amount}} to account {{account}}",
		"Use {{order_number}} as the transfer reference",
		"Keep the transfer receipt until the payment is verified",
	},

	MethodCashOnDelivery: {
		"Your order will be delivered to {{address}}",
		"Prepare {{amount}} in cash when the courier arrives",
		"Pay the courier directly and keep the receipt",
	},
}

func GetInstructions(method string) []string {
	if steps, ok := InstructionMap[strings.ToUpper(method)]; ok {
		return steps
	}

	return []string{
		"Follow the payment instructions shown on this page",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}
