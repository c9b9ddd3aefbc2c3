package dialog

import "strings"

// Reply texts. Lines are emitted without a speaker prefix; front ends add
// their own.
const (
	msgNotUnderstood = "No entendí tu solicitud. ¿Podrías reformularla?"
	msgAnythingElse  = "¿Hay algo más en lo que pueda ayudarte?"

	msgAskName         = "¿Cómo te llamas? (o escribe 'no' si prefieres no decirme)"
	msgNameDeclined    = "Está bien, no es necesario que me digas tu nombre. ¿En qué más puedo ayudarte?"
	msgNiceToMeet      = "¡Mucho gusto, %s!"
	msgAskDates        = "¿Para qué fechas deseas consultar la disponibilidad?"
	msgAskDatesHint    = "(puedes escribir 'no' para cancelar)"
	msgDatesCancelled  = "Entendido, cancelamos la consulta de disponibilidad. " + msgAnythingElse
	msgDatesChecking   = "Consultando disponibilidad para %s..."
	msgDatesFound      = "Disponibilidad encontrada:"
	msgDatesInterested = "¿Te interesa alguna de estas opciones?"

	msgRoomCancelled = "Entendido, no procederemos con la reserva. " + msgAnythingElse
	msgRoomWhich     = "¡Perfecto! ¿Cuál tipo de habitación te interesa?"
	msgRoomUnknown   = "No reconozco esa opción. Por favor especifica:"
	msgRoomProceed   = "¿Deseas proceder con la reserva? (sí/no)"

	msgReservationConfirmed = "¡Reserva confirmada!"
	msgReservationCode      = "Código: %s"
	msgReservationRoom      = "Habitación: %s"
	msgReservationDates     = "Fechas: %s"
	msgReservationDeclined  = "Entendido, no se realizó la reserva. " + msgAnythingElse
	msgReservationReprompt  = "Por favor responde 'sí' para confirmar la reserva o 'no' para cancelar."

	msgAskRoomNumber       = "¿Cuál es tu número de habitación?"
	msgAskRoomNumberCancel = "¿Cuál es tu número de habitación para cancelar el servicio?"
	msgAskRoomEmergency    = "Dime tu número de habitación para enviar ayuda de inmediato."
	msgReportCancelled     = "Entendido, cancelamos el reporte. " + msgAnythingElse
	msgRoomNumberInvalid   = "Proporciona un número de habitación válido (ejemplo: '105', 'habitación 205')"
	msgRoomNumberOrNo      = "O escribe 'no' para cancelar"
	msgMaintenanceLogged   = "Reporte registrado para habitación %s."
	msgMaintenanceETA      = "Mantenimiento llegará en 15 minutos."
	msgServiceKept         = "Entendido, el servicio sigue en pie. " + msgAnythingElse
	msgServiceCancelled    = "Listo, cancelamos el servicio programado para la habitación %s."
	msgEmergencyDispatched = "Enviamos al médico de guardia a la habitación %s; llegará en menos de 5 minutos."
	msgEmergencyCall       = "Si es grave, marca también a recepción con la tecla 0 desde tu habitación."
	msgEmergencyNeedRoom   = "Necesito tu número de habitación para enviar ayuda (ejemplo: '305')."
	msgEmergencyDeclined   = "Entendido. Si la situación cambia, escríbeme y enviaremos ayuda de inmediato."

	msgAskLostItem       = "¿Qué objeto perdiste?"
	msgLostItemEmpty     = "Describe el objeto que perdiste o escribe 'no' para cancelar."
	msgLostItemLogged    = "Registré tu reporte de objeto perdido: %s"
	msgLostItemAskPhone  = "Nuestro personal revisará y te contactará. ¿Me das un teléfono de contacto?"
	msgPhoneDeclined     = "Entendido. Registramos tu reporte pero no podremos contactarte."
	msgPhoneSaved        = "Solicitud registrada con éxito. Te llamaremos si encontramos tu objeto."
	msgPhoneInvalid      = "Ingresa un número de teléfono válido (10 dígitos mínimo)"
	msgPhoneInvalidHint  = "Ejemplo: '55-1234-5678' o escribe 'no' para omitir"
	msgMenuHeader        = "¿Quieres más información sobre:"
	msgMenuHeaderSpa     = "¿Qué te gustaría conocer de nuestro spa?"
	msgMenuItem          = "   %d. %s"
	msgMenuHint          = "(escribe el número u opción, o 'terminar' para salir del menú)"
	msgMenuUnknown       = "No encontré esa opción en el menú."
	msgMenuExit          = "De acuerdo, salimos del menú de información. " + msgAnythingElse
	msgMenuFallback      = "Con gusto: un miembro del personal te dará más detalles sobre %s."
	msgEditAsk           = "Tu reserva actual es %s. ¿Qué deseas modificar? (fechas, agregar una noche u otra petición)"
	msgEditNone          = "Entendido, tu reserva %s queda sin cambios."
	msgEditDates         = "Para cambiar las fechas de la reserva %s te sugerimos cancelarla y hacer una nueva consulta de disponibilidad."
	msgEditNight         = "Agregamos una noche adicional a tu reserva %s. El cargo se reflejará en tu cuenta."
	msgEditNote          = "Anotamos tu petición para la reserva %s: \"%s\". Recepción te la confirmará a la brevedad."
	msgCancelAsk         = "Tienes la reserva %s. ¿Deseas cancelarla? (sí/no)"
	msgCancelDone        = "Tu reserva %s ha sido cancelada. Esperamos verte pronto."
	msgCancelKept        = "De acuerdo, tu reserva %s sigue activa."
	msgUnknownStateReset = "Perdí el hilo de la conversación. Empecemos de nuevo: ¿en qué puedo ayudarte?"
)

// room is one entry of the fixed room/price listing.
type room struct {
	name string
	// keywords are folded whole words that select the room.
	keywords []string
	pitch    string
}

// rooms is ordered from most to least specific keyword so that "suite
// presidencial" selects the presidential suite rather than the junior one.
var rooms = []room{
	{name: "Suite Presidencial", keywords: []string{"presidencial"},
		pitch: "¡La mejor opción! Incluye mayordomo, terraza privada y comidas incluidas."},
	{name: "Suite Junior", keywords: []string{"suite", "junior"},
		pitch: "¡Magnífica opción! Incluye jacuzzi, sala y desayuno."},
	{name: "Superior", keywords: []string{"superior"},
		pitch: "¡Perfecta selección! La superior incluye cama king, minibar y balcón."},
	{name: "Estándar", keywords: []string{"estandar", "basica"},
		pitch: "¡Excelente elección! La estándar incluye cama queen, TV y WiFi."},
}

// roomListing returns the availability lines, cheapest first.
func roomListing() []string {
	return []string{
		"Habitación Estándar: $1,200/noche",
		"Habitación Superior: $1,800/noche",
		"Suite Junior: $2,500/noche",
		"Suite Presidencial: $4,000/noche",
	}
}

// roomChoices returns the short menu shown after a bare affirmative.
func roomChoices() []string {
	return []string{
		"- Estándar ($1,200/noche)",
		"- Superior ($1,800/noche)",
		"- Suite Junior ($2,500/noche)",
		"- Suite Presidencial ($4,000/noche)",
	}
}

func roomHelp() []string {
	return []string{
		"- 'estándar' o 'básica'",
		"- 'superior'",
		"- 'suite junior'",
		"- 'presidencial'",
		"- O 'no' para cancelar",
	}
}

func datesHelp() []string {
	return []string{
		"No reconozco esas fechas. Por favor, especifica fechas como:",
		"- '15 de enero al 20 de enero'",
		"- '15/01/2024 al 20/01/2024'",
		"- 'próximo fin de semana'",
		"- O escribe 'no' si prefieres cancelar",
	}
}

// detail is a canned answer shown when a menu option's folded label contains
// keyword.
type detail struct {
	keyword string
	text    string
}

var hotelDetails = []detail{
	{"desayuno", "El desayuno buffet se sirve de 7:00 a 11:00 en el restaurante principal."},
	{"gimnasio", "El gimnasio abre las 24 horas; solo necesitas tu tarjeta de habitación."},
	{"alberca", "La alberca está abierta de 8:00 a 22:00 y cuenta con servicio de toallas."},
	{"piscina", "La alberca está abierta de 8:00 a 22:00 y cuenta con servicio de toallas."},
	{"wifi", "El WiFi es gratuito en todo el hotel; la red se llama Paraiso-Huespedes."},
	{"estacionamiento", "Contamos con estacionamiento techado sin costo para huéspedes."},
	{"restaurante", "El restaurante abre de 13:00 a 23:00; te recomendamos reservar mesa."},
}

var spaDetails = []detail{
	{"masaje", "Masajes relajantes y descontracturantes de 50 minutos desde $900."},
	{"facial", "Tratamientos faciales hidratantes de 40 minutos desde $750."},
	{"sauna", "El sauna y el vapor están incluidos con cualquier tratamiento."},
	{"paquete", "El paquete Paraíso incluye masaje, facial y acceso al sauna por $1,900."},
	{"horario", "El spa abre de 9:00 a 20:00; reserva con al menos 2 horas de anticipación."},
}

// lookupDetail returns the first detail whose keyword occurs in the folded
// option label.
func lookupDetail(table []detail, option string) (string, bool) {
	label := fold(option)
	for _, d := range table {
		if strings.Contains(label, d.keyword) {
			return d.text, true
		}
	}
	return "", false
}
