// Package health поднимает HTTP-эндпоинт живости, чтобы хостинг
// не усыплял процесс бота.
package health

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

// Start запускает сервер живости на указанном порту и сам пингует его
// каждые 40 секунд. Работает в фоновых горутинах, ошибки только логируются.
func Start(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Bot is running!"))
	})

	go func() {
		log.Printf("Запуск HTTP сервера живости на порту %s", port)
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("Ошибка запуска HTTP сервера: %v", err)
		}
	}()

	go selfPing(fmt.Sprintf("http://localhost:%s/", port))
}

func selfPing(url string) {
	for {
		time.Sleep(40 * time.Second)

		resp, err := http.Get(url)
		if err != nil {
			log.Printf("Ошибка само пинга: %v", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("Само пинг вернул статус: %d", resp.StatusCode)
		}
	}
}
