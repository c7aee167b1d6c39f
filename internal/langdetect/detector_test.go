package langdetect

import "testing"

const englishPost = `I have been holding this stock for about two years now and the latest quarterly report
finally shows the turnaround management promised. Revenue is growing again, margins improved, and the
company paid down a large part of its debt. I think the market is still underestimating how much free
cash flow they will generate over the next few years, so I am adding to my position.`

const germanPost = `Ich halte diese Aktie seit ungefähr zwei Jahren und der letzte Quartalsbericht zeigt endlich
die Wende, die das Management versprochen hat. Der Umsatz wächst wieder, die Margen haben sich verbessert
und das Unternehmen hat einen großen Teil seiner Schulden zurückgezahlt. Ich glaube, der Markt unterschätzt
immer noch, wie viel freien Cashflow sie in den nächsten Jahren erzielen werden.`

const spanishPost = `He mantenido esta acción durante unos dos años y el último informe trimestral por fin muestra
el cambio que la dirección había prometido. Los ingresos vuelven a crecer, los márgenes mejoraron y la
empresa pagó una gran parte de su deuda. Creo que el mercado todavía subestima cuánto flujo de caja libre
van a generar durante los próximos años.`

const russianPost = `Я держу эти акции около двух лет, и последний квартальный отчет наконец показывает разворот,
который обещало руководство. Выручка снова растет, маржа улучшилась, и компания погасила большую часть долга.`

func TestIsEnglish(t *testing.T) {
	d := New(0)

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"english", englishPost, true},
		{"german", germanPost, false},
		{"spanish", spanishPost, false},
		{"cyrillic", russianPost, false},
		{"empty", "", false},
		{"whitespace", "  \n\t ", false},
		{"numeric", "12345 67890 2024 15.5% 3,000,000", false},
		{"symbols", "$$$ 🚀🚀🚀 !!!", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.IsEnglish(tc.text); got != tc.want {
				t.Errorf("IsEnglish(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestMinConfidence(t *testing.T) {
	strict := New(1.01)
	if strict.IsEnglish(englishPost) {
		t.Error("Expected confidence above 1 to reject everything")
	}
}
