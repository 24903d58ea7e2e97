package server

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>textfetch</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Inter', -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; }
        .header h1 { font-size: 1.5rem; background: linear-gradient(135deg, #38bdf8, #818cf8); background-clip: text; -webkit-background-clip: text; -webkit-text-fill-color: transparent; }
        .container { max-width: 960px; margin: 0 auto; padding: 2rem; }
        .form-row { display: flex; gap: 0.75rem; }
        .form-row input { flex: 1; padding: 0.75rem 1rem; border-radius: 8px; border: 1px solid #334155; background: #1e293b; color: #f1f5f9; font-size: 1rem; }
        .form-row button { padding: 0.75rem 1.5rem; border-radius: 8px; border: none; background: #38bdf8; color: #0f172a; font-weight: 600; cursor: pointer; }
        .form-row button:disabled { opacity: 0.5; cursor: wait; }
        .panel { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; margin-top: 1.5rem; }
        .panel h2 { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.75rem; }
        .panel pre { white-space: pre-wrap; word-break: break-word; font-size: 0.875rem; color: #f1f5f9; max-height: 24rem; overflow-y: auto; }
        .panel.error { border-color: #f87171; }
        .panel.error pre { color: #fca5a5; }
        .record { border-bottom: 1px solid #334155; padding: 0.5rem 0; font-size: 0.875rem; display: flex; justify-content: space-between; gap: 1rem; }
        .record .url { color: #38bdf8; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
        .record .when { color: #64748b; white-space: nowrap; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header"><h1>textfetch</h1></div>
    <div class="container">
        <div class="form-row">
            <input type="url" id="url" placeholder="https://example.com" autofocus>
            <button id="go">Extract</button>
        </div>
        <div class="panel" id="result-panel" hidden>
            <h2 id="result-title">Result</h2>
            <pre id="result"></pre>
        </div>
        <div class="panel">
            <h2>Recent extractions</h2>
            <div id="records"></div>
        </div>
    </div>
    <div class="footer">textfetch — fetch a page, strip the tags</div>
    <script>
        const urlInput = document.getElementById('url');
        const goBtn = document.getElementById('go');
        const panel = document.getElementById('result-panel');
        const result = document.getElementById('result');
        const resultTitle = document.getElementById('result-title');

        async function extract() {
            const url = urlInput.value.trim();
            if (!url) return;
            goBtn.disabled = true;
            try {
                const r = await fetch('/api/extract', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify({ url })
                });
                const d = await r.json();
                panel.hidden = false;
                if (d.ok) {
                    panel.classList.remove('error');
                    resultTitle.textContent = d.title || 'Result';
                    result.textContent = d.text || '(no text)';
                } else {
                    panel.classList.add('error');
                    resultTitle.textContent = 'Error';
                    result.textContent = d.message || d.error || 'extraction failed';
                }
                loadRecords();
            } finally {
                goBtn.disabled = false;
            }
        }

        async function loadRecords() {
            const r = await fetch('/api/records?per_page=10');
            const d = await r.json();
            const el = document.getElementById('records');
            el.innerHTML = '';
            (d.records || []).forEach(rec => {
                const row = document.createElement('div');
                row.className = 'record';
                const url = document.createElement('span');
                url.className = 'url';
                url.textContent = rec.url;
                const when = document.createElement('span');
                when.className = 'when';
                when.textContent = new Date(rec.created_at).toLocaleString();
                row.append(url, when);
                el.appendChild(row);
            });
        }

        goBtn.addEventListener('click', extract);
        urlInput.addEventListener('keydown', e => { if (e.key === 'Enter') extract(); });
        loadRecords();
    </script>
</body>
</html>`
